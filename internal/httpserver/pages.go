package httpserver

import (
	"net/http"

	"farmstore/internal/gate"
	"github.com/gin-gonic/gin"
)

func (h *handlers) listPages(c *gin.Context) {
	s := currentSession(c)
	out := make([]gate.Decision, 0, len(gate.Pages))
	for _, p := range gate.Pages {
		out = append(out, gate.Decide(s, p))
	}
	c.JSON(http.StatusOK, out)
}

// page reports the navigation decision for one page.
func (h *handlers) page(c *gin.Context) {
	p, err := gate.ParsePage(c.Param("page"))
	if err != nil {
		c.JSON(http.StatusNotFound, errorBody{Error: "unknown page"})
		return
	}
	d := gate.Decide(currentSession(c), p)
	c.JSON(decisionStatus(d.Outcome), d)
}

func decisionStatus(o gate.Outcome) int {
	switch o {
	case gate.OutcomeLoginRequired:
		return http.StatusUnauthorized
	case gate.OutcomeAccessDenied:
		return http.StatusForbidden
	case gate.OutcomeLoading:
		return http.StatusAccepted
	default:
		return http.StatusOK
	}
}
