package auth

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
)

type userRecord struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email"`
	Gender    string `json:"gender,omitempty"`
	Image     string `json:"image,omitempty"`
}

func encodeUser(user domain.User) (string, error) {
	payload, err := json.Marshal(userRecord{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Gender:    user.Gender,
		Image:     user.Image,
	})
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	return string(payload), nil
}

func decodeUser(payload string) (domain.User, error) {
	var record userRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return domain.User{}, fmt.Errorf("json.Unmarshal: %w", err)
	}
	if record.ID == 0 {
		return domain.User{}, fmt.Errorf("id is empty")
	}

	return domain.User{
		ID:        record.ID,
		Username:  record.Username,
		FirstName: record.FirstName,
		LastName:  record.LastName,
		Email:     record.Email,
		Gender:    record.Gender,
		Image:     record.Image,
	}, nil
}
