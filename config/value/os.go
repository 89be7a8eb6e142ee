package value

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dragonwatch/dragonwatch/glob"

	"github.com/lestrrat-go/strftime"
)

// directory, optional

type Dir string

func NewDir(p *string, val string) *Dir {
	*p = val

	return (*Dir)(p)
}

func (u *Dir) Set(val string) error {
	*u = Dir(val)
	return nil
}

func (u *Dir) String() string {
	return string(*u)
}

func (u *Dir) Validate() error {
	val := string(*u)

	if len(strings.TrimSpace(val)) == 0 {
		return nil
	}

	finfo, err := os.Stat(val)
	if err != nil {
		return fmt.Errorf("%s does not exist", val)
	}

	if !finfo.IsDir() {
		return fmt.Errorf("%s is not a directory", val)
	}

	return nil
}

func (u *Dir) IsEmpty() bool {
	return len(string(*u)) == 0
}

// executable, relative paths resolve against a base directory

type Exec struct {
	p   *string
	dir *string
}

func NewExec(p *string, val string, dir *string) *Exec {
	*p = val

	return &Exec{
		p:   p,
		dir: dir,
	}
}

func (u *Exec) Set(val string) error {
	*u.p = val
	return nil
}

func (u *Exec) String() string {
	return *u.p
}

func (u *Exec) Validate() error {
	if len(strings.TrimSpace(*u.p)) == 0 {
		return fmt.Errorf("path name must not be empty")
	}

	return nil
}

func (u *Exec) IsEmpty() bool {
	return len(*u.p) == 0
}

// Path returns the path of the executable with the base directory applied.
func (u *Exec) Path() string {
	val := *u.p

	if !filepath.IsAbs(val) && u.dir != nil && len(*u.dir) != 0 {
		val = filepath.Join(*u.dir, val)
	}

	return val
}

// Exists returns an error if the executable is missing.
func (u *Exec) Exists() error {
	val := u.Path()

	finfo, err := os.Stat(val)
	if err != nil {
		return fmt.Errorf("%s not found", val)
	}

	if finfo.IsDir() {
		return fmt.Errorf("%s is a directory", val)
	}

	return nil
}

// list of file path patterns with optional strftime placeholders and glob
// meta characters

type PathPatternList struct {
	StringList
}

func NewPathPatternList(p *[]string, val []string, separator string) *PathPatternList {
	return &PathPatternList{
		StringList: *NewStringList(p, val, separator),
	}
}

func (s *PathPatternList) Validate() error {
	for _, pattern := range *s.p {
		if _, err := strftime.New(pattern); err != nil {
			return fmt.Errorf("%s: %w", pattern, err)
		}

		if glob.IsPattern(pattern) {
			if _, err := glob.Compile(filepath.ToSlash(pattern), '/'); err != nil {
				return fmt.Errorf("%s: %w", pattern, err)
			}
		}
	}

	return nil
}
