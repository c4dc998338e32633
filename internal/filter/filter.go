package filter

import (
	"fmt"
	"strings"

	"go-jobscout-automation/internal/errors"
	"go-jobscout-automation/internal/models"
)

// Policy toggles the per-source rules. Sources that favor recall turn
// CheckRole off; sources whose company is optional turn RequireCompany off.
type Policy struct {
	RequireCompany bool
	CheckRole      bool
}

type Classifier struct {
	deny  Denylist
	roles Roles
}

func NewClassifier(deny Denylist, roles Roles) *Classifier {
	return &Classifier{deny: deny, roles: roles}
}

// Default builds a classifier from the built-in lists.
func Default() *Classifier {
	return NewClassifier(NewDenylist(DefaultDenylist), NewRoles(DefaultRoles))
}

// Accept applies the rules in order and promotes c to a Posting. Every
// rejection is a LISTING_REJECTED error carrying the reason.
func (cl *Classifier) Accept(c models.Candidate, p Policy) (models.Posting, error) {
	switch {
	case strings.TrimSpace(c.Title) == "":
		return models.Posting{}, errors.Rejected("empty title")
	case strings.TrimSpace(c.Link) == "":
		return models.Posting{}, errors.Rejected("empty link")
	case p.RequireCompany && strings.TrimSpace(c.Company) == "":
		return models.Posting{}, errors.Rejected("empty company")
	}

	if category, term, ok := cl.deny.Match(c.Company); ok {
		return models.Posting{}, errors.Rejected(fmt.Sprintf("excluded company (%s: %q)", category, term))
	}

	if p.CheckRole && !cl.roles.Relevant(c.Title) {
		return models.Posting{}, errors.Rejected("irrelevant role")
	}

	mode := ClassifyWorkMode(c.Title, c.Location, c.Description)
	return models.NewPosting(c, mode)
}
