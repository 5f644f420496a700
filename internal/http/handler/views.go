package handler

import (
	"html/template"
	"net/http"

	"cardpark/internal/domain"
	"cardpark/internal/http/middleware"
	"cardpark/internal/lifecycle"
	"cardpark/internal/observability"
)

// The HTML surface is deliberately minimal: it renders the lifecycle
// states and nothing else. Styling and animation belong to whatever
// front end sits on top of the JSON API.
var viewTemplates = template.Must(template.New("views").Parse(`
{{define "layout_head"}}<!doctype html>
<html lang="en"><head><meta charset="utf-8"><title>cardpark</title></head><body>{{end}}
{{define "layout_foot"}}</body></html>{{end}}

{{define "connect"}}{{template "layout_head"}}
<h1>Enter your access code</h1>
<form action="/connect" method="get">
  <input name="code" maxlength="5" placeholder="XXXXX" required>
  <button type="submit">Connect</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{template "layout_foot"}}{{end}}

{{define "vacant"}}{{template "layout_head"}}
<h1>Set up your profile</h1>
<p>Code: <code>{{.Code}}</code></p>
<form action="/{{.Code}}" method="post">
  <input name="first_name" placeholder="First name" required>
  <input name="last_name" placeholder="Last name" required>
  <input name="email" type="email" placeholder="Email" required>
  <input name="phone" placeholder="Phone">
  <input name="company" placeholder="Company">
  <input name="title" placeholder="Title">
  <input name="location" placeholder="Location">
  <textarea name="bio" placeholder="Bio"></textarea>
  <input name="linkedin" placeholder="LinkedIn URL">
  <label><input type="checkbox" name="tos_accepted" value="true"> I accept the terms of service</label>
  <button type="submit">Create my profile</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{template "layout_foot"}}{{end}}

{{define "occupied"}}{{template "layout_head"}}
<h1>{{.Profile.DisplayName}}</h1>
{{if .Profile.Title}}<p>{{.Profile.Title}}{{if .Profile.Company}} @ {{.Profile.Company}}{{end}}</p>{{end}}
{{if .Profile.Location}}<p>{{.Profile.Location}}</p>{{end}}
{{if .Profile.Bio}}<p>{{.Profile.Bio}}</p>{{end}}
<p>Email: {{.Profile.Email}}</p>
{{if .Profile.Phone}}<p>Phone: {{.Profile.Phone}}</p>{{end}}
{{if .Profile.LinkedIn}}<p><a href="{{.Profile.LinkedIn}}">LinkedIn</a></p>{{end}}
<form action="/api/v1/session/favorites/{{.Code}}" method="post">
  <button type="submit">{{if .Starred}}★ Starred{{else}}☆ Star{{end}}</button>
</form>
{{template "layout_foot"}}{{end}}

{{define "invalid"}}{{template "layout_head"}}
<h1>Invalid code</h1>
<p>This access code does not exist. Check it and try again.</p>
<p><a href="/">Back</a></p>
{{template "layout_foot"}}{{end}}

{{define "error"}}{{template "layout_head"}}
<h1>Something went wrong</h1>
<p>Temporary failure while looking up the code. Please retry.</p>
<p><a href="/">Back</a></p>
{{template "layout_foot"}}{{end}}
`))

type viewData struct {
	Code    string
	Profile *domain.Profile
	Starred bool
	Error   string
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data viewData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = viewTemplates.ExecuteTemplate(w, name, data)
}

// ViewRoot renders the code entry form.
// GET /
func (h *Handler) ViewRoot(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "connect", viewData{})
}

// ViewConnect validates the submitted code and redirects to its page.
// GET /connect?code=XXXXX
func (h *Handler) ViewConnect(w http.ResponseWriter, r *http.Request) {
	code := lifecycle.NormalizeCode(r.URL.Query().Get("code"))
	if !lifecycle.ValidCode(code) {
		h.render(w, http.StatusOK, "connect", viewData{Error: "The code must be exactly 5 letters or digits."})
		return
	}
	http.Redirect(w, r, "/"+code, http.StatusSeeOther)
}

// ViewCode renders the state a code resolves to. Invalid and error are
// terminal for this navigation; a new path re-enters the loading
// state.
// GET /{code}
func (h *Handler) ViewCode(w http.ResponseWriter, r *http.Request) {
	code := lifecycle.NormalizeCode(pathCode(r))
	if !lifecycle.ValidCode(code) {
		// Not a code-shaped segment: back to the connect form.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	state := h.engine.Resolve(r.Context(), code)
	h.renderState(w, r, state, "")
}

// ViewClaim handles the vacant page's form post and re-renders
// whichever state the claim ends in.
// POST /{code}
func (h *Handler) ViewClaim(w http.ResponseWriter, r *http.Request) {
	code := lifecycle.NormalizeCode(pathCode(r))
	if !lifecycle.ValidCode(code) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "vacant", viewData{Code: code, Error: "Malformed form submission."})
		return
	}
	in := lifecycle.ClaimInput{
		FirstName:   r.PostFormValue("first_name"),
		LastName:    r.PostFormValue("last_name"),
		Email:       r.PostFormValue("email"),
		Phone:       r.PostFormValue("phone"),
		Company:     r.PostFormValue("company"),
		Title:       r.PostFormValue("title"),
		Location:    r.PostFormValue("location"),
		Bio:         r.PostFormValue("bio"),
		LinkedIn:    r.PostFormValue("linkedin"),
		TOSAccepted: r.PostFormValue("tos_accepted") == "true",
	}

	deviceID, _ := middleware.DeviceIDFromContext(r.Context())
	sess, err := h.loadOrNewSession(r.Context(), deviceID)
	if err != nil {
		h.render(w, http.StatusInternalServerError, "error", viewData{})
		return
	}

	rec, sess, err := h.engine.Claim(r.Context(), code, in, sess)
	if err != nil {
		switch lifecycle.Classify(err) {
		case lifecycle.KindValidation:
			h.render(w, http.StatusUnprocessableEntity, "vacant", viewData{Code: code, Error: err.Error()})
		case lifecycle.KindInvalidCode:
			h.render(w, http.StatusNotFound, "invalid", viewData{Code: code})
		case lifecycle.KindAlreadyClaimed:
			// Lost the race or revisited an occupied code: show the
			// read view instead of an error page.
			http.Redirect(w, r, "/"+code, http.StatusSeeOther)
		case lifecycle.KindDuplicateEmail:
			h.render(w, http.StatusConflict, "vacant", viewData{Code: code, Error: "This email is already attached to another code."})
		default:
			h.render(w, http.StatusBadGateway, "error", viewData{Code: code})
		}
		return
	}

	observability.Audit(r, "code.claimed", "code", rec.Code, "device_id", deviceID)
	h.render(w, http.StatusCreated, "occupied", viewData{
		Code:    rec.Code,
		Profile: rec.Profile(),
		Starred: sess.Starred(rec.Code),
	})
}

func (h *Handler) renderState(w http.ResponseWriter, r *http.Request, state lifecycle.CodeState, flash string) {
	switch state.Status {
	case lifecycle.StatusVacant:
		h.render(w, http.StatusOK, "vacant", viewData{Code: state.Code, Error: flash})
	case lifecycle.StatusOccupied:
		deviceID, _ := middleware.DeviceIDFromContext(r.Context())
		sess, _ := h.loadSession(r.Context(), deviceID)
		h.render(w, http.StatusOK, "occupied", viewData{
			Code:    state.Code,
			Profile: state.Profile,
			Starred: sess.Starred(state.Code),
		})
	case lifecycle.StatusInvalid:
		h.render(w, http.StatusNotFound, "invalid", viewData{})
	default:
		h.render(w, http.StatusBadGateway, "error", viewData{})
	}
}
