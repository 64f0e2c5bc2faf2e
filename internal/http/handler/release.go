package handler

import (
	"bytes"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"brgydocs/internal/model"
	"brgydocs/internal/service"
)

type releaseBody struct {
	ReleaseName *string `json:"release_name" validate:"omitempty,max=255"`
}

// ReleaseAction releases the request bound to the token. Scanning twice is
// answered with already_released rather than an error.
//
// @Summary  Release by QR token
// @Tags     release
// @Accept   json
// @Produce  json
// @Param    token path string true "release token"
// @Success  200 {object} service.ReleaseResult
// @Failure  422 {object} errorPayload
// @Router   /release/{token} [post]
func ReleaseAction(svc service.DocumentRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body releaseBody
		if ok, err := bind(c, &body); !ok {
			return err
		}
		res, err := svc.Release(c.UserContext(), actorOf(c), c.Params("token"), body.ReleaseName)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// ReleaseLanding is the page the printed QR code points at. Opening it performs
// the release; browsers get HTML, API clients get the ReleaseAction JSON.
// The claimant name may be passed as ?claimant=.
//
// @Summary  Release landing page
// @Tags     release
// @Produce  json,html
// @Param    token    path  string true  "release token"
// @Param    claimant query string false "name of the person claiming the document"
// @Router   /release/{token} [get]
func ReleaseLanding(svc service.DocumentRequestService, loc *time.Location) fiber.Handler {
	if loc == nil {
		loc = time.UTC
	}
	return func(c *fiber.Ctx) error {
		var claimant *string
		if v := c.Query("claimant"); v != "" {
			claimant = &v
		}

		res, err := svc.Release(c.UserContext(), actorOf(c), c.Params("token"), claimant)
		if c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextHTML) != fiber.MIMETextHTML {
			if err != nil {
				return writeServiceError(c, err)
			}
			return c.JSON(res)
		}

		page := landingPage{RequestID: requestIDFromCtx(c)}
		status := fiber.StatusOK
		switch {
		case err == nil:
			page.fill(res, loc)
		case errors.Is(err, service.ErrInvalidToken):
			status = fiber.StatusUnprocessableEntity
			page.Title = "Invalid QR code"
			page.Message = "This QR code does not match any document request. It may have been mistyped or revoked."
		default:
			status, _, _ = serviceErrorStatus(err)
			if status == fiber.StatusInternalServerError {
				return writeServiceError(c, err)
			}
			page.Title = "Cannot release"
			page.Message = "This document request cannot be released right now."
		}

		var buf bytes.Buffer
		if err := landingTemplate.Execute(&buf, page); err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Status(status).Send(buf.Bytes())
	}
}

type landingPage struct {
	Title      string
	Message    string
	RequestID  string
	Released   bool
	Resident   string
	Document   string
	Purpose    string
	ORNumbers  string
	ClaimedBy  string
	ReleasedAt string
}

func (p *landingPage) fill(res *service.ReleaseResult, loc *time.Location) {
	v := res.Request
	p.Released = true
	p.Title = "Document released"
	if res.AlreadyReleased {
		p.Title = "Already released"
		p.Message = "This document was released earlier. No changes were made."
	}
	if v == nil {
		return
	}
	p.Resident = v.ResidentName
	p.Document = v.DocumentTypeName
	p.Purpose = v.Purpose
	p.ORNumbers = orNumbers(v.Payments)
	if v.ReleaseName != nil {
		p.ClaimedBy = *v.ReleaseName
	}
	if v.ReleasedAt != nil {
		p.ReleasedAt = v.ReleasedAt.In(loc).Format("January 2, 2006 3:04 PM")
	}
}

func orNumbers(ps []model.Payment) string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ORNumber)
	}
	return strings.Join(out, ", ")
}

var landingTemplate = template.Must(template.New("release").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <style>
    body { font-family: system-ui, sans-serif; max-width: 32rem; margin: 3rem auto; padding: 0 1rem; }
    dt { font-weight: 600; margin-top: .5rem; }
    dd { margin: 0; }
    .ref { color: #777; font-size: .8rem; margin-top: 2rem; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  {{with .Message}}<p>{{.}}</p>{{end}}
  {{if .Released}}
  <dl>
    <dt>Resident</dt><dd>{{.Resident}}</dd>
    <dt>Document</dt><dd>{{.Document}}</dd>
    <dt>Purpose</dt><dd>{{.Purpose}}</dd>
    {{with .ORNumbers}}<dt>OR number</dt><dd>{{.}}</dd>{{end}}
    {{with .ClaimedBy}}<dt>Claimed by</dt><dd>{{.}}</dd>{{end}}
    {{with .ReleasedAt}}<dt>Released</dt><dd>{{.}}</dd>{{end}}
  </dl>
  {{end}}
  {{with .RequestID}}<p class="ref">Reference: {{.}}</p>{{end}}
</body>
</html>
`))
