package app

// AuthState mirrors the login response: the bearer token plus the profile
// fields the UI shows. Persisted under the "auth" key.
type AuthState struct {
	AccessToken string `json:"access_token"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Role        string `json:"role,omitempty"`
	SchoolID    string `json:"school_id,omitempty"`
}

func (a AuthState) LoggedIn() bool {
	return a.AccessToken != ""
}
