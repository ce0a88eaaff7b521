// Package review renders the staged changes of an editing session for the
// confirmation step before a commit.
package review

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"guestlisteditor/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"join": func(items []string) string { return strings.Join(items, ", ") },
}).ParseFS(templateFS, "templates/*.txt"))

// templateRenderer implements domain.ReviewRenderer using embedded template files.
type templateRenderer struct {
	name string
}

// NewTemplateRenderer returns a ReviewRenderer producing plain text.
func NewTemplateRenderer() domain.ReviewRenderer {
	return &templateRenderer{name: "review.txt"}
}

type guestLine struct {
	Name           string
	Group          string
	PointOfContact bool
	Invitations    []string
}

type groupLine struct {
	Title       string
	Description string
	SizeLimit   string
}

type deletionLine struct {
	Guest    string
	Subevent string
}

type reviewData struct {
	Empty         bool
	NewGuests     []guestLine
	UpdatedGuests []guestLine
	NewGroups     []groupLine
	UpdatedGroups []groupLine
	Deletions     []deletionLine
}

func (r *templateRenderer) Render(review domain.ChangeReview) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, r.name, buildData(review)); err != nil {
		return "", fmt.Errorf("render %s: %w", r.name, err)
	}
	return buf.String(), nil
}

func buildData(review domain.ChangeReview) reviewData {
	data := reviewData{Empty: review.IsEmpty()}
	for _, g := range review.NewGuests {
		data.NewGuests = append(data.NewGuests, guestLineFor(g, review.GroupTitles))
	}
	for _, g := range review.UpdatedGuests {
		data.UpdatedGuests = append(data.UpdatedGuests, guestLineFor(g, review.GroupTitles))
	}
	for _, g := range review.NewGroups {
		data.NewGroups = append(data.NewGroups, groupLineFor(g))
	}
	for _, g := range review.UpdatedGroups {
		data.UpdatedGroups = append(data.UpdatedGroups, groupLineFor(g))
	}
	for _, d := range review.RSVPsToDelete {
		line := deletionLine{
			Guest:    review.GuestNames[d.GuestID],
			Subevent: review.SubeventLabels[d.SubeventID],
		}
		if line.Guest == "" {
			line.Guest = "guest " + d.GuestID.String()
		}
		if line.Subevent == "" {
			line.Subevent = "sub-event " + strconv.FormatInt(d.SubeventID, 10)
		}
		data.Deletions = append(data.Deletions, line)
	}
	return data
}

func guestLineFor(g domain.Guest, groupTitles map[domain.ID]string) guestLine {
	line := guestLine{Name: g.Name, PointOfContact: g.PointOfContact, Group: g.GroupTitle}
	if g.GroupID != nil {
		if title, ok := groupTitles[*g.GroupID]; ok {
			line.Group = title
		}
	}
	for label := range g.Invitations {
		line.Invitations = append(line.Invitations, label)
	}
	sort.Strings(line.Invitations)
	return line
}

func groupLineFor(g domain.Group) groupLine {
	line := groupLine{Title: g.Title, Description: g.Description, SizeLimit: "unlimited"}
	if g.SizeLimit != domain.GroupSizeUnlimited {
		line.SizeLimit = strconv.Itoa(g.SizeLimit)
	}
	return line
}
