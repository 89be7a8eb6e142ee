package value

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// listen address (host?:port), a bare port is accepted

type Address string

func NewAddress(p *string, val string) *Address {
	*p = val

	return (*Address)(p)
}

func (s *Address) Set(val string) error {
	val = strings.TrimSpace(val)

	if _, err := strconv.ParseUint(val, 10, 16); err == nil {
		val = ":" + val
	}

	*s = Address(val)
	return nil
}

func (s *Address) String() string {
	return string(*s)
}

func (s *Address) Validate() error {
	if len(string(*s)) == 0 {
		return nil
	}

	_, port, err := net.SplitHostPort(string(*s))
	if err != nil {
		return err
	}

	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return fmt.Errorf("the port must be a number between 0 and 65535")
	}

	return nil
}

func (s *Address) IsEmpty() bool {
	return len(string(*s)) == 0
}

// absolute URL with one of the allowed schemes, optional

type URL struct {
	p       *string
	schemes []string
}

// NewURL returns a URL value. Without schemes any scheme is accepted.
func NewURL(p *string, val string, schemes ...string) *URL {
	*p = val

	return &URL{
		p:       p,
		schemes: schemes,
	}
}

func (u *URL) Set(val string) error {
	*u.p = strings.TrimSpace(val)
	return nil
}

func (u *URL) String() string {
	return *u.p
}

func (u *URL) Validate() error {
	val := *u.p

	if len(val) == 0 {
		return nil
	}

	parsed, err := url.Parse(val)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL", val)
	}

	if len(parsed.Scheme) == 0 || len(parsed.Host) == 0 {
		return fmt.Errorf("%s is not an absolute URL", val)
	}

	if len(u.schemes) == 0 {
		return nil
	}

	for _, scheme := range u.schemes {
		if strings.EqualFold(parsed.Scheme, scheme) {
			return nil
		}
	}

	return fmt.Errorf("the scheme of %s must be one of %s", val, strings.Join(u.schemes, ", "))
}

func (u *URL) IsEmpty() bool {
	return len(*u.p) == 0
}
