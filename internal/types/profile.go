package types

// Location is a postal location split into parts.
type Location struct {
	City    string `json:"city" yaml:"city"`
	State   string `json:"state,omitempty" yaml:"state"`
	Country string `json:"country" yaml:"country"`
}

// Experience is one employment entry.
type Experience struct {
	Company     string `json:"company" yaml:"company"`
	Title       string `json:"title" yaml:"title"`
	StartDate   string `json:"startDate" yaml:"start_date"`
	EndDate     string `json:"endDate,omitempty" yaml:"end_date"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// Education is one education entry.
type Education struct {
	Institution string `json:"institution" yaml:"institution"`
	Degree      string `json:"degree" yaml:"degree"`
	Field       string `json:"field,omitempty" yaml:"field"`
	StartYear   string `json:"startYear,omitempty" yaml:"start_year"`
	EndYear     string `json:"endYear,omitempty" yaml:"end_year"`
}

// Socials holds optional profile links.
type Socials struct {
	LinkedIn  string `json:"linkedin,omitempty" yaml:"linkedin"`
	GitHub    string `json:"github,omitempty" yaml:"github"`
	Portfolio string `json:"portfolio,omitempty" yaml:"portfolio"`
}

// Profile is the job seeker's profile.
type Profile struct {
	FirstName  string       `json:"firstName"`
	LastName   string       `json:"lastName"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Location   Location     `json:"location"`
	Headline   string       `json:"headline"`
	Bio        string       `json:"bio"`
	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Socials    Socials      `json:"socials"`
	PhotoURL   string       `json:"profilePhoto,omitempty"`
	ResumeURL  string       `json:"resume,omitempty"`
}

// FullName joins the name parts.
func (p Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// AdminProfileView is the reduced profile an administrator may read.
type AdminProfileView struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Location  Location `json:"location"`
	Headline  string   `json:"headline"`
	Skills    []string `json:"skills"`
	ResumeURL string   `json:"resume,omitempty"`
}

// AdminView projects p onto the fields an administrator may see.
func (p Profile) AdminView() AdminProfileView {
	return AdminProfileView{
		Name:      p.FullName(),
		Email:     p.Email,
		Location:  p.Location,
		Headline:  p.Headline,
		Skills:    p.Skills,
		ResumeURL: p.ResumeURL,
	}
}
