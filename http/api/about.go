package api

import (
	"time"

	"github.com/dragonwatch/dragonwatch/app"
)

// About describes the running instance and its build
type About struct {
	App       string       `json:"app"`
	Name      string       `json:"name"`
	ID        string       `json:"id"`
	CreatedAt string       `json:"created_at"` // RFC3339
	Uptime    uint64       `json:"uptime_seconds"`
	Processes []string     `json:"processes"`
	Version   AboutVersion `json:"version"`
}

// AboutVersion is the build information of the binary
type AboutVersion struct {
	Number   string `json:"number"`
	Commit   string `json:"repository_commit"`
	Branch   string `json:"repository_branch"`
	Build    string `json:"build_date"` // RFC3339
	Arch     string `json:"arch"`
	Compiler string `json:"compiler"`
}

// NewAbout fills in the build information of the app and the uptime of an
// instance that has been created at createdAt.
func NewAbout(id, name string, createdAt, now time.Time, processes []string) About {
	about := About{
		App:       app.Name,
		Name:      name,
		ID:        id,
		CreatedAt: createdAt.Format(time.RFC3339),
		Processes: append([]string{}, processes...),
		Version: AboutVersion{
			Number:   app.Version.String(),
			Commit:   app.Commit,
			Branch:   app.Branch,
			Build:    app.Build,
			Arch:     app.Arch,
			Compiler: app.Compiler,
		},
	}

	if now.After(createdAt) {
		about.Uptime = uint64(now.Sub(createdAt).Seconds())
	}

	return about
}
