package value

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// string

type String string

func NewString(p *string, val string) *String {
	*p = val

	return (*String)(p)
}

func (s *String) Set(val string) error {
	*s = String(val)
	return nil
}

func (s *String) String() string {
	return string(*s)
}

func (s *String) Validate() error {
	return nil
}

func (s *String) IsEmpty() bool {
	return len(string(*s)) == 0
}

// one of a set of strings, compared case-insensitive

type Enum struct {
	p       *string
	allowed []string
}

func NewEnum(p *string, val string, allowed []string) *Enum {
	*p = val

	return &Enum{
		p:       p,
		allowed: allowed,
	}
}

func (s *Enum) Set(val string) error {
	*s.p = strings.ToLower(strings.TrimSpace(val))
	return nil
}

func (s *Enum) String() string {
	return *s.p
}

func (s *Enum) Validate() error {
	for _, a := range s.allowed {
		if strings.EqualFold(a, *s.p) {
			return nil
		}
	}

	return fmt.Errorf("'%s' is not one of: %s", *s.p, strings.Join(s.allowed, ", "))
}

func (s *Enum) IsEmpty() bool {
	return len(*s.p) == 0
}

// array of strings

type StringList struct {
	p         *[]string
	separator string
}

func NewStringList(p *[]string, val []string, separator string) *StringList {
	v := &StringList{
		p:         p,
		separator: separator,
	}

	*p = val

	return v
}

func (s *StringList) Set(val string) error {
	*s.p = splitList(val, s.separator)

	return nil
}

func (s *StringList) String() string {
	if s.IsEmpty() {
		return "(empty)"
	}

	return strings.Join(*s.p, s.separator)
}

func (s *StringList) Validate() error {
	return nil
}

func (s *StringList) IsEmpty() bool {
	return len(*s.p) == 0
}

func splitList(val, separator string) []string {
	list := []string{}

	for _, elm := range strings.Split(val, separator) {
		elm = strings.TrimSpace(elm)
		if len(elm) != 0 {
			list = append(list, elm)
		}
	}

	return list
}

// array of names that must be unique regardless of their casing

type NameList struct {
	StringList
}

func NewNameList(p *[]string, val []string, separator string) *NameList {
	return &NameList{
		StringList: *NewStringList(p, val, separator),
	}
}

func (s *NameList) Validate() error {
	seen := map[string]string{}
	fold := cases.Fold()

	for _, name := range *s.p {
		if len(strings.TrimSpace(name)) == 0 {
			return fmt.Errorf("names must not be empty")
		}

		key := fold.String(strings.TrimSpace(name))
		if first, ok := seen[key]; ok {
			return fmt.Errorf("'%s' is a duplicate of '%s'", name, first)
		}

		seen[key] = name
	}

	return nil
}

// boolean

type Bool bool

func NewBool(p *bool, val bool) *Bool {
	*p = val

	return (*Bool)(p)
}

func (b *Bool) Set(val string) error {
	v, err := strconv.ParseBool(val)
	if err != nil {
		return err
	}
	*b = Bool(v)
	return nil
}

func (b *Bool) String() string {
	return strconv.FormatBool(bool(*b))
}

func (b *Bool) Validate() error {
	return nil
}

func (b *Bool) IsEmpty() bool {
	return !bool(*b)
}

// int

type Int int

func NewInt(p *int, val int) *Int {
	*p = val

	return (*Int)(p)
}

func (i *Int) Set(val string) error {
	v, err := strconv.Atoi(val)
	if err != nil {
		return err
	}
	*i = Int(v)
	return nil
}

func (i *Int) String() string {
	return strconv.Itoa(int(*i))
}

func (i *Int) Validate() error {
	return nil
}

func (i *Int) IsEmpty() bool {
	return int(*i) == 0
}

// int64

type Int64 int64

func NewInt64(p *int64, val int64) *Int64 {
	*p = val

	return (*Int64)(p)
}

func (i *Int64) Set(val string) error {
	v, err := strconv.ParseInt(val, 0, 64)
	if err != nil {
		return err
	}
	*i = Int64(v)
	return nil
}

func (i *Int64) String() string {
	return strconv.FormatInt(int64(*i), 10)
}

func (i *Int64) Validate() error {
	return nil
}

func (i *Int64) IsEmpty() bool {
	return int64(*i) == 0
}

// float64 with a lower bound

type Float64 struct {
	p   *float64
	min float64
}

func NewFloat64(p *float64, val, min float64) *Float64 {
	*p = val

	return &Float64{
		p:   p,
		min: min,
	}
}

func (f *Float64) Set(val string) error {
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return err
	}
	*f.p = v
	return nil
}

func (f *Float64) String() string {
	return strconv.FormatFloat(*f.p, 'f', -1, 64)
}

func (f *Float64) Validate() error {
	if *f.p < f.min {
		return fmt.Errorf("must be at least %s", strconv.FormatFloat(f.min, 'f', -1, 64))
	}

	return nil
}

func (f *Float64) IsEmpty() bool {
	return *f.p == 0
}
