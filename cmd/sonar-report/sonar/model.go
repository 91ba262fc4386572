package sonar

// Impact is one entry of the Clean Code "impacts" list newer servers attach
// to an issue alongside, or instead of, the legacy severity.
type Impact struct {
	SoftwareQuality string `json:"softwareQuality"`
	Severity        string `json:"severity"`
}

// Issue represents a vulnerability from api/issues/search.
type Issue struct {
	Key          string   `json:"key"`
	Rule         string   `json:"rule"`
	Severity     string   `json:"severity,omitempty"`
	Type         string   `json:"type"`
	Component    string   `json:"component"`
	Line         *int     `json:"line,omitempty"`
	Message      string   `json:"message"`
	Status       string   `json:"status"`
	Tags         []string `json:"tags,omitempty"`
	CreationDate string   `json:"creationDate,omitempty"`
	UpdateDate   string   `json:"updateDate,omitempty"`
	Impacts      []Impact `json:"impacts,omitempty"`
}

// Project represents a project from api/components/search.
type Project struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}
