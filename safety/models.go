package safety

// Source is the attribution returned with every brief
const Source = "Google News RSS"

// Request describes a safety brief request
type Request struct {
	// Location is used verbatim as the search term
	Location string `json:"location" yaml:"location"`
	// MaxItems limits the number of headlines, 0 means DefaultMaxItems
	MaxItems int `json:"max_items,omitempty" yaml:"max_items,omitempty"`
	// Language is a news locale such as en-US, empty means DefaultLanguage
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// Brief is a list of recent safety related headlines.
// A returned Brief always has at least one headline.
type Brief struct {
	Location  string      `json:"location" yaml:"location"`
	Headlines []*Headline `json:"headlines" yaml:"headlines"`
	Source    string      `json:"source" yaml:"source"`
}

// Headline is a single news item
type Headline struct {
	Title     string `json:"title" yaml:"title"`
	Link      string `json:"link" yaml:"link"`
	Published string `json:"published" yaml:"published"`
	Snippet   string `json:"snippet" yaml:"snippet"`
}
