package types

// ExportFormat selects the rendering used when a document is exported.
type ExportFormat string

// Supported export formats.
const (
	FormatJSON     ExportFormat = "json"
	FormatText     ExportFormat = "txt"
	FormatMarkdown ExportFormat = "md"
)

// UserPreferences holds process-wide editor settings. Missing fields
// are filled from DefaultPreferences when loaded, so partial updates
// always merge against a complete base.
type UserPreferences struct {
	AutoSave               bool         `json:"autoSave"`
	AutoSaveInterval       int          `json:"autoSaveInterval"` // seconds of quiet before a commit
	DefaultTheme           string       `json:"defaultTheme"`
	ShowValidationWarnings bool         `json:"showValidationWarnings"`
	EnableAnalytics        bool         `json:"enableAnalytics"`
	ExportFormat           ExportFormat `json:"exportFormat"`
	LastUsedSections       []string     `json:"lastUsedSections"`
}

// DefaultPreferences returns the first-run preference set.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		AutoSave:               true,
		AutoSaveInterval:       5,
		DefaultTheme:           "#004D40",
		ShowValidationWarnings: true,
		EnableAnalytics:        true,
		ExportFormat:           FormatJSON,
		LastUsedSections:       []string{},
	}
}

// PreferencesPatch is a partial preference update; nil fields keep the
// stored value.
type PreferencesPatch struct {
	AutoSave               *bool         `json:"autoSave,omitempty"`
	AutoSaveInterval       *int          `json:"autoSaveInterval,omitempty"`
	DefaultTheme           *string       `json:"defaultTheme,omitempty"`
	ShowValidationWarnings *bool         `json:"showValidationWarnings,omitempty"`
	EnableAnalytics        *bool         `json:"enableAnalytics,omitempty"`
	ExportFormat           *ExportFormat `json:"exportFormat,omitempty"`
	LastUsedSections       *[]string     `json:"lastUsedSections,omitempty"`
}

// Apply merges the patch into the preferences.
func (u *UserPreferences) Apply(p PreferencesPatch) {
	if p.AutoSave != nil {
		u.AutoSave = *p.AutoSave
	}
	if p.AutoSaveInterval != nil {
		u.AutoSaveInterval = *p.AutoSaveInterval
	}
	if p.DefaultTheme != nil {
		u.DefaultTheme = *p.DefaultTheme
	}
	if p.ShowValidationWarnings != nil {
		u.ShowValidationWarnings = *p.ShowValidationWarnings
	}
	if p.EnableAnalytics != nil {
		u.EnableAnalytics = *p.EnableAnalytics
	}
	if p.ExportFormat != nil {
		u.ExportFormat = *p.ExportFormat
	}
	if p.LastUsedSections != nil {
		u.LastUsedSections = append([]string(nil), (*p.LastUsedSections)...)
	}
}
