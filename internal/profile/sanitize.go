// File: internal/profile/sanitize.go
package profile

import (
	"net/url"
	"strconv"
	"strings"

	"scholar_directory_backend/internal/common"
)

const (
	maxTextField       = 2000
	maxLongTextField   = 4000
	maxURLLength       = 2048
	maxImagePathLength = 300
	maxListLength      = 50
	maxLinkListLength  = 25
)

type sanitizeOpts struct {
	max        int
	allowEmpty bool
}

// sanitizeString trims the value and caps its length. Non-string values
// sanitize to nil (or "" when allowEmpty), as does an all-whitespace string
// when allowEmpty is false.
func sanitizeString(value interface{}, opts sanitizeOpts) *string {
	if opts.max <= 0 {
		opts.max = maxTextField
	}
	s, ok := value.(string)
	if !ok {
		if opts.allowEmpty {
			empty := ""
			return &empty
		}
		return nil
	}
	trimmed := strings.TrimSpace(s)
	if !opts.allowEmpty && trimmed == "" {
		return nil
	}
	if len(trimmed) > opts.max {
		trimmed = trimmed[:opts.max]
	}
	return &trimmed
}

// sanitizeURL validates the value as an absolute URL and returns its
// normalized form (parsing and re-serializing adds a trailing slash to
// bare-host URLs). Invalid URLs sanitize to nil, never an error.
func sanitizeURL(value interface{}) *string {
	text := sanitizeString(value, sanitizeOpts{max: maxURLLength})
	if text == nil {
		return nil
	}
	u, err := url.Parse(*text)
	if err != nil {
		return nil
	}
	if u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return nil
	}
	if u.Host != "" && u.Path == "" {
		u.Path = "/"
	}
	normalized := u.String()
	return &normalized
}

// sanitizeArray maps each entry through mapper, silently dropping entries
// that map to nil, and caps the result at max items.
func sanitizeArray[T any](values []interface{}, mapper func(interface{}) *T, max int) []T {
	if max <= 0 {
		max = maxListLength
	}
	result := make([]T, 0, len(values))
	for _, item := range values {
		if len(result) >= max {
			break
		}
		if mapped := mapper(item); mapped != nil {
			result = append(result, *mapped)
		}
	}
	return result
}

// parseAge accepts a number or numeric string; anything else is treated as
// absent. Strings parse their leading integer digits, so trailing garbage is
// ignored ("12abc" is 12) and the range check still applies to it.
func parseAge(value interface{}) *int {
	switch v := value.(type) {
	case float64:
		age := int(v)
		return &age
	case int:
		age := v
		return &age
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		end := 0
		if trimmed[0] == '+' || trimmed[0] == '-' {
			end++
		}
		start := end
		for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
			end++
		}
		if end == start {
			return nil
		}
		parsed, err := strconv.Atoi(trimmed[:end])
		if err != nil {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}

// parseBool follows truthiness coercion: zero numbers and empty strings are
// false, any other present value is true.
func parseBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	default:
		return value != nil
	}
}

// firstOf returns the first present key from the map, supporting both
// snake_case and camelCase client payloads.
func firstOf(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func asObject(value interface{}) (map[string]interface{}, bool) {
	m, ok := value.(map[string]interface{})
	return m, ok
}

// SanitizeSubmission turns a raw submission payload into a validated
// DraftData. Required-field and range violations return a 422 APIError with
// the user-facing message; everything else is coerced or dropped silently.
func SanitizeSubmission(req *SubmitDraftRequest) (*DraftData, error) {
	if req == nil || req.Profile == nil {
		return nil, common.ErrBadRequest.WithDetails("Profile payload is required")
	}

	p := req.Profile

	name := sanitizeString(firstOf(p, "name"), sanitizeOpts{})
	contactEmail := sanitizeString(firstOf(p, "contact_email", "contactEmail"), sanitizeOpts{})
	whatsappLink := sanitizeURL(firstOf(p, "whatsapp_link", "whatsappLink"))
	bio := sanitizeString(firstOf(p, "bio"), sanitizeOpts{allowEmpty: true, max: maxLongTextField})
	linkedin := sanitizeURL(firstOf(p, "linkedin"))
	github := sanitizeURL(firstOf(p, "github"))
	calendly := sanitizeURL(firstOf(p, "calendly"))
	picturePath := sanitizeString(
		firstOf(p, "profile_picture_path", "profilePicturePath"),
		sanitizeOpts{max: maxImagePathLength},
	)

	if name == nil {
		return nil, common.ErrUnprocessableEntity.WithDetails("Name is required")
	}
	if contactEmail == nil {
		return nil, common.ErrUnprocessableEntity.WithDetails("Contact email is required")
	}
	if whatsappLink == nil {
		return nil, common.ErrUnprocessableEntity.WithDetails("Valid WhatsApp link is required")
	}

	age := parseAge(firstOf(p, "age"))
	if age != nil && (*age < 13 || *age > 120) {
		return nil, common.ErrUnprocessableEntity.WithDetails("Age must be between 13 and 120")
	}

	canGroup := parseBool(firstOf(p, "can_group", "canGroup"))

	links := sanitizeArray(req.Links, func(entry interface{}) *Link {
		obj, ok := asObject(entry)
		if !ok {
			return nil
		}
		label := sanitizeString(firstOf(obj, "label", "title"), sanitizeOpts{})
		u := sanitizeURL(firstOf(obj, "url", "href"))
		if label == nil || u == nil {
			return nil
		}
		return &Link{Label: *label, URL: *u}
	}, maxLinkListLength)

	projects := sanitizeArray(req.Projects, func(entry interface{}) *Project {
		obj, ok := asObject(entry)
		if !ok {
			return nil
		}
		projName := sanitizeString(firstOf(obj, "name", "project_name", "title"), sanitizeOpts{})
		description := sanitizeString(
			firstOf(obj, "description", "project_description", "summary"),
			sanitizeOpts{max: maxLongTextField},
		)
		link := sanitizeURL(firstOf(obj, "link", "project_link", "url"))
		if projName == nil || description == nil {
			return nil
		}
		return &Project{Name: *projName, Description: *description, Link: link}
	}, maxLinkListLength)

	wishlist := sanitizeArray(req.MeetingWishlist, func(entry interface{}) *WishlistEntry {
		obj, ok := asObject(entry)
		if !ok {
			return nil
		}
		entryName := sanitizeString(firstOf(obj, "name"), sanitizeOpts{})
		if entryName == nil {
			return nil
		}
		return &WishlistEntry{
			Name:      *entryName,
			LinkedIn:  sanitizeURL(firstOf(obj, "linkedin")),
			OtherLink: sanitizeURL(firstOf(obj, "other_link", "otherLink")),
		}
	}, maxListLength)

	contacts := sanitizeArray(req.Contacts, func(entry interface{}) *Contact {
		obj, ok := asObject(entry)
		if !ok {
			return nil
		}
		entryName := sanitizeString(firstOf(obj, "name"), sanitizeOpts{})
		if entryName == nil {
			return nil
		}
		details := sanitizeString(
			firstOf(obj, "contact_details", "contactDetails"),
			sanitizeOpts{allowEmpty: true},
		)
		return &Contact{
			Name:           *entryName,
			LinkedIn:       sanitizeURL(firstOf(obj, "linkedin")),
			OtherLink:      sanitizeURL(firstOf(obj, "other_link", "otherLink")),
			ContactDetails: *details,
		}
	}, maxListLength)

	stringEntry := func(entry interface{}) *string {
		s, ok := entry.(string)
		if !ok {
			return nil
		}
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return nil
		}
		return &trimmed
	}
	interests := sanitizeArray(req.Interests, stringEntry, maxListLength)
	skills := sanitizeArray(req.Skills, stringEntry, maxListLength)

	funFacts := FunFacts{}
	if req.FunFacts != nil {
		take := func(keys ...string) string {
			v := sanitizeString(firstOf(req.FunFacts, keys...), sanitizeOpts{allowEmpty: true})
			return *v
		}
		funFacts.FavoriteMovie = take("favorite_movie", "favoriteMovie")
		funFacts.FavoriteBook = take("favorite_book", "favoriteBook")
		funFacts.FavoriteFood = take("favorite_food", "favoriteFood")
		funFacts.PlaceToVisit = take("place_to_visit", "placeToVisit")
		funFacts.FamousPersonToMeet = take("famous_person_to_meet", "famousPersonToMeet")
		funFacts.Superpower = take("superpower")
		if extras, ok := asObject(req.FunFacts["extras"]); ok {
			funFacts.Extras = extras
		}
	}

	core := ProfileCore{
		Name:               *name,
		Age:                age,
		ContactEmail:       *contactEmail,
		WhatsappLink:       *whatsappLink,
		Bio:                *bio,
		LinkedIn:           linkedin,
		GitHub:             github,
		Calendly:           calendly,
		CanGroup:           canGroup,
		ProfilePicturePath: picturePath,
	}

	return &DraftData{
		Profile:         core,
		Links:           links,
		Projects:        projects,
		MeetingWishlist: wishlist,
		Contacts:        contacts,
		Interests:       interests,
		Skills:          skills,
		FunFacts:        funFacts,
	}, nil
}
