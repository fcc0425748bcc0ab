package checkers

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCoord decodes a click payload. Accepted forms: "2 1", "2,1" and "21".
func ParseCoord(raw string) (Coord, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Coord{}, fmt.Errorf("empty coordinate")
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	if len(fields) == 1 && len(fields[0]) == 2 {
		fields = []string{fields[0][:1], fields[0][1:]}
	}
	if len(fields) != 2 {
		return Coord{}, fmt.Errorf("coordinate %q: want \"row col\"", raw)
	}
	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return Coord{}, fmt.Errorf("coordinate %q: row: %w", raw, err)
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return Coord{}, fmt.Errorf("coordinate %q: col: %w", raw, err)
	}
	c := Coord{Row: row, Col: col}
	if !c.InBounds() {
		return Coord{}, fmt.Errorf("coordinate %q: %w", raw, ErrOutOfBounds)
	}
	return c, nil
}

// ParseCoords decodes a sequence of clicks from whitespace separated tokens:
// "2 1 3 2" or "21 32" both yield two coordinates.
func ParseCoords(tokens []string) ([]Coord, error) {
	var digits []string
	for _, tok := range tokens {
		for _, part := range strings.Split(strings.TrimSpace(tok), ",") {
			switch len(part) {
			case 0:
			case 1:
				digits = append(digits, part)
			case 2:
				digits = append(digits, part[:1], part[1:])
			default:
				return nil, fmt.Errorf("coordinate token %q", tok)
			}
		}
	}
	if len(digits) == 0 || len(digits)%2 != 0 {
		return nil, fmt.Errorf("want row/col pairs, got %d values", len(digits))
	}
	out := make([]Coord, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		c, err := ParseCoord(digits[i] + " " + digits[i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
