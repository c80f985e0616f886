package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseISODuration parses the ISO-8601 duration subset the video API emits
// (days/hours/minutes/seconds, e.g. "PT1H30M15S" -> 5415). Year and month
// designators are rejected: they have no fixed second length
func ParseISODuration(s string) (int64, error) {
	orig := s
	s = strings.TrimSpace(s)
	if len(s) < 2 || (s[0] != 'P' && s[0] != 'p') {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q", orig)
	}
	s = s[1:]

	inTime := false
	sawComponent := false
	var total int64
	var num strings.Builder

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num.WriteRune(r)
		case r == 'T' || r == 't':
			if inTime {
				return 0, fmt.Errorf("invalid ISO-8601 duration %q", orig)
			}
			inTime = true
		default:
			if num.Len() == 0 {
				return 0, fmt.Errorf("invalid ISO-8601 duration %q", orig)
			}
			n, err := strconv.ParseInt(num.String(), 10, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid ISO-8601 duration %q", orig)
			}
			num.Reset()
			sawComponent = true

			var mult int64
			switch r {
			case 'D', 'd':
				if inTime {
					return 0, fmt.Errorf("invalid ISO-8601 duration %q", orig)
				}
				mult = 86400
			case 'H', 'h':
				if !inTime {
					return 0, fmt.Errorf("invalid ISO-8601 duration %q", orig)
				}
				mult = 3600
			case 'M', 'm':
				// minutes only inside the time part; months are unsupported
				if !inTime {
					return 0, fmt.Errorf("unsupported month designator in %q", orig)
				}
				mult = 60
			case 'S', 's':
				if !inTime {
					return 0, fmt.Errorf("invalid ISO-8601 duration %q", orig)
				}
				mult = 1
			default:
				return 0, fmt.Errorf("invalid ISO-8601 duration %q", orig)
			}
			total += n * mult
		}
	}

	if num.Len() > 0 || !sawComponent {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q", orig)
	}
	return total, nil
}
