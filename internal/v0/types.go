package v0

// ModelConfiguration selects the generation model.
type ModelConfiguration struct {
	ModelID string `json:"modelId,omitempty"`
}

// CreateChatRequest starts a new chat, which generates a component.
type CreateChatRequest struct {
	Message            string              `json:"message"`
	System             string              `json:"system,omitempty"`
	ChatPrivacy        string              `json:"chatPrivacy,omitempty"`
	ProjectID          string              `json:"projectId,omitempty"`
	ModelConfiguration *ModelConfiguration `json:"modelConfiguration,omitempty"`
}

// SendMessageRequest continues an existing chat.
type SendMessageRequest struct {
	Message string `json:"message"`
}

// File is one generated source file.
type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Version is a generated revision of a chat.
type Version struct {
	ID      string `json:"id"`
	Status  string `json:"status,omitempty"`
	DemoURL string `json:"demoUrl,omitempty"`
	Files   []File `json:"files,omitempty"`
}

// Chat is the subset of the v0 chat resource the tools report.
type Chat struct {
	ID            string   `json:"id"`
	WebURL        string   `json:"webUrl,omitempty"`
	ProjectID     string   `json:"projectId,omitempty"`
	LatestVersion *Version `json:"latestVersion,omitempty"`
}
