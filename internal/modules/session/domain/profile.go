package domain

import (
	"fmt"

	"dareNowConsole/internal/shared/normalization"
)

// The login endpoints are not consistent about envelopes: the admin endpoint answers
// {data:{token, adminData}} while the place endpoint answers either {data:{placeData, token}}
// or {placeData, token}. The adapters below are the only place that knows about this.

// ParseAdminLogin extracts the token and profile from an admin login response. The username
// falls back to the submitted one when adminData carries none.
func ParseAdminLogin(payload any, submittedUsername string) (string, AdminProfile, error) {
	container := normalization.MapFromPayload(payload)
	if container == nil {
		return "", AdminProfile{}, fmt.Errorf("%w: admin login payload is not an object", ErrMalformedResponse)
	}

	token := normalization.AsString(container["token"])
	if token == "" {
		token = normalization.AsString(normalization.AsMap(payload)["token"])
	}
	if token == "" {
		return "", AdminProfile{}, fmt.Errorf("%w: admin login returned no token", ErrMalformedResponse)
	}

	adminData := normalization.AsMap(container["adminData"])
	username := normalization.FirstString(adminData, "userName", "username")
	if username == "" {
		username = normalization.AsString(submittedUsername)
	}

	return token, AdminProfile{
		Username:  username,
		Name:      username,
		IsAdmin:   true,
		AdminData: adminData,
	}, nil
}

// ParseRestaurantLogin extracts the token and the profile to store from a place login
// response. The stored profile is the inner response object, so a placeData wrapper is kept
// as the remote API sent it; the token itself is not duplicated into the profile.
func ParseRestaurantLogin(payload any) (string, Profile, error) {
	root := normalization.AsMap(payload)
	if root == nil {
		return "", nil, fmt.Errorf("%w: place login payload is not an object", ErrMalformedResponse)
	}

	response := normalization.AsMap(root["data"])
	if response == nil {
		response = root
	}

	token := normalization.AsString(response["token"])
	if token == "" {
		token = normalization.AsString(root["token"])
	}
	if token == "" {
		return "", nil, fmt.Errorf("%w: place login returned no token", ErrMalformedResponse)
	}

	profile := make(Profile, len(response))
	for key, value := range response {
		if key == "token" {
			continue
		}
		profile[key] = value
	}
	if len(PlaceFromProfile(profile)) == 0 {
		return "", nil, fmt.Errorf("%w: place login returned no place data", ErrMalformedResponse)
	}
	return token, profile, nil
}

// PlaceFromProfile unwraps the optional placeData wrapper of a restaurant profile.
func PlaceFromProfile(profile Profile) map[string]any {
	if profile == nil {
		return nil
	}
	if place := normalization.AsMap(profile["placeData"]); place != nil {
		return place
	}
	return map[string]any(profile)
}

// PlaceID resolves the place identifier: placeData.placeId, then placeId, then id.
func PlaceID(profile Profile) string {
	if profile == nil {
		return ""
	}
	if place := normalization.AsMap(profile["placeData"]); place != nil {
		if id := normalization.AsString(place["placeId"]); id != "" {
			return id
		}
	}
	return normalization.FirstString(profile, "placeId", "id")
}

// AdminProfileFrom reads a stored admin profile.
func AdminProfileFrom(profile Profile) AdminProfile {
	return AdminProfile{
		Username:  normalization.AsString(profile["username"]),
		Name:      normalization.AsString(profile["name"]),
		IsAdmin:   normalization.AsBool(profile["isAdmin"]),
		AdminData: normalization.AsMap(profile["adminData"]),
	}
}

// RestaurantProfileFrom reads a stored restaurant profile.
func RestaurantProfileFrom(profile Profile) RestaurantProfile {
	place := PlaceFromProfile(profile)
	id := PlaceID(profile)
	if id == "" {
		id = normalization.FirstString(place, "placeId", "id")
	}
	return RestaurantProfile{
		PlaceID: id,
		Name:    normalization.AsString(place["name"]),
		Place:   place,
	}
}

// LoginName is the username sent by password changes: username, then name.
func (p AdminProfile) LoginName() string {
	if p.Username != "" {
		return p.Username
	}
	return p.Name
}
