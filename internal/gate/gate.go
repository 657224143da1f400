// Package gate maps a session and a requested page to a navigation decision.
package gate

import (
	"fmt"
	"strings"

	"farmstore/internal/session"
)

// Tier is the capability a page requires.
type Tier int

const (
	TierPublic Tier = iota
	TierSession
	TierAdmin
)

func (t Tier) String() string {
	switch t {
	case TierSession:
		return "session"
	case TierAdmin:
		return "admin"
	default:
		return "public"
	}
}

// Page is one of the storefront's fixed pages.
type Page string

const (
	PageHome      Page = "home"
	PageStore     Page = "store"
	PageCart      Page = "cart"
	PageDashboard Page = "dashboard"
	PageProfile   Page = "profile"
	PageOurStory  Page = "our-story"
	PageOurFarms  Page = "our-farms"
	PageImpact    Page = "impact"
	PageContact   Page = "contact"
	PageLogin     Page = "login"
	PageSignup    Page = "signup"
	PageAdmin     Page = "admin"
)

var tiers = map[Page]Tier{
	PageHome:      TierPublic,
	PageStore:     TierPublic,
	PageCart:      TierPublic,
	PageOurStory:  TierPublic,
	PageOurFarms:  TierPublic,
	PageImpact:    TierPublic,
	PageContact:   TierPublic,
	PageLogin:     TierPublic,
	PageSignup:    TierPublic,
	PageDashboard: TierSession,
	PageProfile:   TierSession,
	PageAdmin:     TierAdmin,
}

// Pages lists every page in navigation order.
var Pages = []Page{
	PageHome, PageStore, PageCart, PageDashboard, PageProfile, PageOurStory,
	PageOurFarms, PageImpact, PageContact, PageLogin, PageSignup, PageAdmin,
}

// Tier returns the capability tier required by p.
func (p Page) Tier() Tier {
	return tiers[p]
}

// Path returns the URL path the page is served under.
func (p Page) Path() string {
	if p == PageHome {
		return "/"
	}
	return "/" + string(p)
}

// ParsePage accepts a page name or path ("our-story", "/our-story", "/").
func ParsePage(s string) (Page, error) {
	name := strings.ToLower(strings.Trim(strings.TrimSpace(s), "/"))
	if name == "" {
		return PageHome, nil
	}
	p := Page(name)
	if _, ok := tiers[p]; !ok {
		return "", fmt.Errorf("unknown page %q", s)
	}
	return p, nil
}

// Outcome is what the client should do for a navigation.
type Outcome string

const (
	OutcomeRender        Outcome = "render"
	OutcomeLoading       Outcome = "loading"
	OutcomeLoginRequired Outcome = "login-required"
	OutcomeAccessDenied  Outcome = "access-denied"
)

// Decision is the result of a navigation.
type Decision struct {
	Page        Page    `json:"page"`
	Tier        string  `json:"tier"`
	Outcome     Outcome `json:"outcome"`
	ResetScroll bool    `json:"resetScroll"`
}

// Decide maps (session, page) to a Decision. Every navigation resets scroll.
func Decide(s session.Session, p Page) Decision {
	tier := p.Tier()
	d := Decision{Page: p, Tier: tier.String(), ResetScroll: true}
	d.Outcome = Allow(s, tier)
	return d
}

// Allow reports the outcome of a session requesting a tier.
func Allow(s session.Session, tier Tier) Outcome {
	if s.State == session.StateResolving {
		return OutcomeLoading
	}
	switch tier {
	case TierSession:
		if !s.IsAuthenticated() {
			return OutcomeLoginRequired
		}
	case TierAdmin:
		if !s.IsAdmin() {
			return OutcomeAccessDenied
		}
	}
	return OutcomeRender
}
