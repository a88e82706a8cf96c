package storage

import (
	"fmt"
	"strings"
	"time"

	fmpderrors "fmpd/pkg/errors"
)

// DefaultNameTemplate names files YYYYMMDD, then "YYYYMMDD 1", "YYYYMMDD 2"...
const DefaultNameTemplate = "yyyyMMdd[ i]"

// NameTemplate renders output file names (without extension).
//
// Symbols:
//
//	yyyy yy        year
//	M MM           month
//	d dd           day
//	H HH h hh      hour (24h, 12h)
//	m mm           minute
//	s ss           second
//	SSS            millisecond
//	a              AM or PM
//	f              identifier of the photo
//	i...i          collision index, empty for the first file, zero padded to the run length
//	I...I          collision index counted from 1 for the first file
//	'text'         literal text
//	[...]          optional: dropped when every index inside renders empty
//
// A "/" in the rendered name creates subdirectories. Other characters are
// copied as they are.
type NameTemplate struct {
	source   string
	parts    []namePart
	hasIndex bool
}

type namePart struct {
	literal  string
	token    byte
	width    int
	group    int
	indexRun bool
}

// ParseNameTemplate compiles a name template.
func ParseNameTemplate(source string) (*NameTemplate, error) {
	if source == "" {
		return nil, fmpderrors.New(fmpderrors.ErrorTypeParsing, "name template is empty")
	}

	t := &NameTemplate{source: source}
	group, groups := 0, 0
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			t.parts = append(t.parts, namePart{literal: literal.String(), group: group})
			literal.Reset()
		}
	}

	for i := 0; i < len(source); {
		c := source[i]
		switch {
		case c == '\'':
			end := strings.IndexByte(source[i+1:], '\'')
			if end < 0 {
				return nil, fmpderrors.New(fmpderrors.ErrorTypeParsing, "name template %q has an unterminated quote", source)
			}
			literal.WriteString(source[i+1 : i+1+end])
			i += end + 2

		case c == '[':
			if group != 0 {
				return nil, fmpderrors.New(fmpderrors.ErrorTypeParsing, "name template %q nests optional groups", source)
			}
			flush()
			groups++
			group = groups
			i++

		case c == ']':
			if group == 0 {
				return nil, fmpderrors.New(fmpderrors.ErrorTypeParsing, "name template %q closes a group it never opened", source)
			}
			flush()
			group = 0
			i++

		case strings.IndexByte("yMdHhmsSafiI", c) >= 0:
			n := 1
			for i+n < len(source) && source[i+n] == c {
				n++
			}
			if !validWidth(c, n) {
				return nil, fmpderrors.New(fmpderrors.ErrorTypeParsing, "name template %q: unsupported symbol %q", source, strings.Repeat(string(c), n))
			}
			flush()
			part := namePart{token: c, width: n, group: group, indexRun: c == 'i' || c == 'I'}
			t.parts = append(t.parts, part)
			t.hasIndex = t.hasIndex || part.indexRun
			i += n

		default:
			literal.WriteByte(c)
			i++
		}
	}
	if group != 0 {
		return nil, fmpderrors.New(fmpderrors.ErrorTypeParsing, "name template %q leaves an optional group open", source)
	}
	flush()

	return t, nil
}

// MustParseNameTemplate is ParseNameTemplate for templates known to be valid.
func MustParseNameTemplate(source string) *NameTemplate {
	t, err := ParseNameTemplate(source)
	if err != nil {
		panic(err)
	}
	return t
}

func validWidth(c byte, n int) bool {
	switch c {
	case 'y':
		return n == 2 || n == 4
	case 'M', 'd', 'H', 'h', 'm', 's':
		return n <= 2
	case 'S':
		return n == 3
	case 'a':
		return n == 1
	}
	return true
}

// HasIndex reports whether the template can tell colliding names apart
func (t *NameTemplate) HasIndex() bool {
	return t.hasIndex
}

// String returns the template source
func (t *NameTemplate) String() string {
	return t.source
}

// Render formats the name of the index-th file that would otherwise share a
// name, for the photo fbid modified at date. date is rendered in local time.
func (t *NameTemplate) Render(fbid string, date time.Time, index int) string {
	date = date.Local()

	var out strings.Builder
	for i := 0; i < len(t.parts); {
		part := t.parts[i]
		if part.group == 0 {
			out.WriteString(part.render(fbid, date, index))
			i++
			continue
		}

		// render a whole optional group
		var group strings.Builder
		keep, hasIndex := false, false
		for ; i < len(t.parts) && t.parts[i].group == part.group; i++ {
			s := t.parts[i].render(fbid, date, index)
			if t.parts[i].indexRun {
				hasIndex = true
				keep = keep || s != ""
			}
			group.WriteString(s)
		}
		if keep || !hasIndex {
			out.WriteString(group.String())
		}
	}
	return out.String()
}

func (p namePart) render(fbid string, date time.Time, index int) string {
	switch p.token {
	case 0:
		return p.literal
	case 'y':
		if p.width == 2 {
			return date.Format("06")
		}
		return date.Format("2006")
	case 'M':
		return pad(int(date.Month()), p.width)
	case 'd':
		return pad(date.Day(), p.width)
	case 'H':
		return pad(date.Hour(), p.width)
	case 'h':
		h := date.Hour() % 12
		if h == 0 {
			h = 12
		}
		return pad(h, p.width)
	case 'm':
		return pad(date.Minute(), p.width)
	case 's':
		return pad(date.Second(), p.width)
	case 'S':
		return pad(date.Nanosecond()/int(time.Millisecond), 3)
	case 'a':
		return date.Format("PM")
	case 'f':
		return strings.Repeat(fbid, p.width)
	case 'i':
		if index == 0 {
			return ""
		}
		return pad(index, p.width)
	case 'I':
		return pad(index+1, p.width)
	}
	return ""
}

func pad(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}
