package server

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	pdfBytes = []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
)

// validProfileFields fills one experience and one education row and
// leaves the second experience row blank, as the page submits it.
func validProfileFields() map[string]string {
	return map[string]string{
		"firstName":                "Ana",
		"lastName":                 "Silva",
		"email":                    "ana@example.com",
		"phone":                    "+351 912 345 678",
		"headline":                 "Backend developer",
		"location.city":            "Lisbon",
		"location.country":         "Portugal",
		"skills":                   "Go, SQL, go, Docker",
		"experience.0.company":     "Acme",
		"experience.0.title":       "Engineer",
		"experience.0.startDate":   "2021-03",
		"experience.0.description": "Payments",
		"experience.1.company":     "",
		"experience.1.title":       "",
		"experience.1.startDate":   "",
		"education.0.institution":  "IST",
		"education.0.degree":       "MSc",
		"education.0.field":        "Computer Science",
		"education.0.startYear":    "2015",
		"education.0.endYear":      "2017",
		"socials.github":           "https://github.com/ana",
	}
}

func TestProfilePage_PrefillsFromSession(t *testing.T) {
	f := newFixture(t)
	resp, doc := f.get(f.loggedIn(newcomer), "/profile")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "Ben", doc.Find(`input[name="firstName"]`).AttrOr("value", ""))
	assert.Equal(t, "Okafor", doc.Find(`input[name="lastName"]`).AttrOr("value", ""))
	assert.Equal(t, newcomer.Email, doc.Find(`input[name="email"]`).AttrOr("value", ""))
	assert.Equal(t, 1, doc.Find(".experience .row").Length(), "one blank row for entry")
}

func TestProfilePage_ShowsStoredProfile(t *testing.T) {
	f := newFixture(t)
	f.backend.SetProfile(seeker.ID, types.Profile{
		FirstName:  "Ana",
		LastName:   "Silva",
		Email:      seeker.Email,
		Skills:     []string{"Go", "SQL"},
		Experience: []types.Experience{{Company: "Acme", Title: "Engineer", StartDate: "2021-03"}},
		PhotoURL:   "/uploads/U1/me.png",
	})

	_, doc := f.get(f.loggedIn(seeker), "/profile")
	assert.Equal(t, "Go, SQL", doc.Find(`input[name="skills"]`).AttrOr("value", ""))
	assert.Equal(t, "Acme", doc.Find(`input[name="experience.0.company"]`).AttrOr("value", ""))
	assert.Equal(t, 2, doc.Find(".experience .row").Length())
	assert.Equal(t, "/uploads/U1/me.png", doc.Find("img.photo").AttrOr("src", ""))
}

func TestProfileSubmit_RejectedKeepsStoredAttachments(t *testing.T) {
	f := newFixture(t)
	f.backend.SetProfile(seeker.ID, types.Profile{
		FirstName: "Ana",
		LastName:  "Silva",
		Email:     seeker.Email,
		Skills:    []string{"Go"},
		PhotoURL:  "/uploads/U1/me.png",
		ResumeURL: "/uploads/U1/cv.pdf",
	})
	c := f.loggedIn(seeker)

	fields := validProfileFields()
	fields["skills"] = ""
	resp, doc := f.postMultipart(c, "/profile", fields, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "must have at least one entry", fieldError(doc, "skills"))
	assert.Equal(t, "/uploads/U1/me.png", doc.Find("img.photo").AttrOr("src", ""))
	assert.Equal(t, 1, doc.Find(`a[href="/uploads/U1/cv.pdf"]`).Length())
	assert.Equal(t, []string{"Go"}, f.backend.Profile(seeker.ID).Skills)
}

func TestProfileSubmit_ValidationBlocksSubmission(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(seeker)

	fields := validProfileFields()
	fields["skills"] = " , "
	fields["location.city"] = ""
	fields["experience.0.title"] = ""
	resp, doc := f.postMultipart(c, "/profile", fields, map[string][]byte{"resume": pngBytes})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "must have at least one entry", fieldError(doc, "skills"))
	assert.NotEmpty(t, fieldError(doc, "location.city"))
	assert.NotEmpty(t, fieldError(doc, "experience.0.title"))
	assert.Equal(t, "Resume must be a PDF", fieldError(doc, "resume"))
	assert.Empty(t, fieldError(doc, "firstName"))

	// What was typed survives the round trip.
	assert.Equal(t, "Acme", doc.Find(`input[name="experience.0.company"]`).AttrOr("value", ""))
	assert.Equal(t, "Backend developer", doc.Find(`input[name="headline"]`).AttrOr("value", ""))

	assert.Empty(t, backendCalls(f.backend, http.MethodPost, "/user/addprofile"))
	assert.Nil(t, f.backend.Profile(seeker.ID))
}

func TestProfileSubmit_SendsProfileAndFiles(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(seeker)

	resp, _ := f.postMultipart(c, "/profile", validProfileFields(), map[string][]byte{
		"profilePhoto": pngBytes,
		"resume":       pdfBytes,
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/jobs", resp.Header.Get("Location"))

	stored := f.backend.Profile(seeker.ID)
	require.NotNil(t, stored)
	assert.Equal(t, []string{"Go", "SQL", "go", "Docker"}, stored.Skills)
	assert.Equal(t, types.Location{City: "Lisbon", Country: "Portugal"}, stored.Location)
	assert.Equal(t, []types.Experience{{Company: "Acme", Title: "Engineer", StartDate: "2021-03", Description: "Payments"}}, stored.Experience)
	assert.Equal(t, []types.Education{{Institution: "IST", Degree: "MSc", Field: "Computer Science", StartYear: "2015", EndYear: "2017"}}, stored.Education)
	assert.Equal(t, "https://github.com/ana", stored.Socials.GitHub)
	assert.Equal(t, "/uploads/U1/profilePhoto.bin", stored.PhotoURL)
	assert.Equal(t, "/uploads/U1/resume.bin", stored.ResumeURL)

	_, doc := f.follow(c, resp)
	assert.Equal(t, "Profile saved", flashText(doc))
}

func TestProfileSubmit_WithoutFiles(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(newcomer)

	resp, _ := f.postMultipart(c, "/profile", validProfileFields(), nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	stored := f.backend.Profile(newcomer.ID)
	require.NotNil(t, stored)
	assert.Empty(t, stored.PhotoURL)
	assert.Empty(t, stored.ResumeURL)
}

func TestProfileSubmit_URLEncodedForm(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(seeker)

	form := url.Values{}
	for k, v := range validProfileFields() {
		form.Set(k, v)
	}
	resp := f.post(c, "/profile", form)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.NotNil(t, f.backend.Profile(seeker.ID))
}
