package model

// AccessToken struct holds the access token data
type AccessToken struct {
	Token string `json:"token"`
}

// LoginResponse struct holds the response data for a successful login or registration
type LoginResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

// SetAccessToken sets the access token in the LoginResponse
func (r *LoginResponse) SetAccessToken(accessToken string) {
	r.AccessToken = accessToken
}
