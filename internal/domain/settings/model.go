package settings

type Profile struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Title      string `json:"title"`
	Department string `json:"department,omitempty"`
}

type Notifications struct {
	Email                bool `json:"email"`
	SMS                  bool `json:"sms"`
	Push                 bool `json:"push"`
	AppointmentReminders bool `json:"appointmentReminders"`
}

type Preferences struct {
	Language string `json:"language"`
	Timezone string `json:"timezone"`
	Theme    string `json:"theme"`
}

// Settings is one user's account page.
type Settings struct {
	UserID        string        `json:"userId"`
	Profile       Profile       `json:"profile"`
	Notifications Notifications `json:"notifications"`
	Preferences   Preferences   `json:"preferences"`
}

func (s Settings) GetID() string { return s.UserID }

// Password length bounds accepted on change. bcrypt rejects input over 72
// bytes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

var themes = []string{"light", "dark", "system"}

var languages = []string{"en", "es", "fr", "de", "hi"}

// DefaultPreferences apply to accounts that never saved preferences.
var DefaultPreferences = Preferences{Language: "en", Timezone: "UTC", Theme: "system"}

// DefaultNotifications apply to accounts that never saved notification
// settings.
var DefaultNotifications = Notifications{Email: true, SMS: false, Push: true, AppointmentReminders: true}
