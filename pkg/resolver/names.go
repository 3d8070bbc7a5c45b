package resolver

import (
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
)

// ParsedName is a skater name split into first and last.
type ParsedName struct {
	First string
	Last  string
}

// ParseName splits a display name into first and last name. A single-token
// name is a team entry ("GriffonGliders"), which gets "Team" as the first
// name and the token as the last name. Multi-word surnames keep every token
// after the first: "Mary Van Der Berg" -> ("Mary", "Van Der Berg").
func ParseName(display string) (ParsedName, error) {
	tokens := strings.Fields(strings.TrimSpace(display))
	switch len(tokens) {
	case 0:
		return ParsedName{}, httperror.NewHTTPError(http.StatusBadRequest, "skater name is empty")
	case 1:
		return ParsedName{First: "Team", Last: tokens[0]}, nil
	default:
		return ParsedName{First: tokens[0], Last: strings.Join(tokens[1:], " ")}, nil
	}
}

// SplitSkaterNames splits a roster name cell that may list several skaters
// ("Amy Yang & Ben He", "Amy Yang / Ben He").
func SplitSkaterNames(cell string) []string {
	cell = strings.ReplaceAll(cell, " and ", " & ")
	cell = strings.ReplaceAll(cell, "/", "&")

	var names []string
	for _, part := range strings.Split(cell, "&") {
		part = strings.TrimSpace(part)
		if part != "" {
			names = append(names, part)
		}
	}
	return names
}

// SignupAffirmative reports whether a roster signup cell means the family
// opted in to photos. Exports are inconsistent about how they say yes.
func SignupAffirmative(signup string) bool {
	s := strings.ToLower(strings.TrimSpace(signup))
	switch s {
	case "true", "yes", "y", "1", "x":
		return true
	}
	return strings.Contains(s, "vip")
}
