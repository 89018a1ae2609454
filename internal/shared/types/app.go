package types

// AppKind identifies an application template. Instances of the same kind
// share catalog defaults but are otherwise independent.
type AppKind string

const (
	AppTerminal   AppKind = "terminal"
	AppBrowser    AppKind = "browser"
	AppSettings   AppKind = "settings"
	AppFiles      AppKind = "files"
	AppCalculator AppKind = "calculator"
	AppVSCode     AppKind = "vscode"
	AppAIChat     AppKind = "ai_chat"
	AppAbout      AppKind = "about"
	AppTrash      AppKind = "trash"
)

// String returns the wire form of the kind
func (k AppKind) String() string {
	return string(k)
}

// AppConfig holds the catalog defaults used to seed a new window instance
type AppConfig struct {
	Kind                   AppKind    `json:"id" yaml:"id"`
	Title                  string     `json:"title" yaml:"title"`
	Icon                   string     `json:"icon" yaml:"icon"`
	DefaultSize            WindowSize `json:"default_size" yaml:"default_size"`
	AllowMultipleInstances bool       `json:"allow_multiple_instances" yaml:"allow_multiple_instances"`
	Dock                   bool       `json:"dock" yaml:"dock"`
}
