package keyring

import (
	"os"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/m96-chan/inkpick/internal/consts"
)

const (
	emojiAPIKeyUser = "emoji_api_key"
	slackTokenUser  = "slack_token"
)

// ErrNotFound is returned when a secret is neither in the environment nor
// in the system keyring.
var ErrNotFound = gokeyring.ErrNotFound

// GetEmojiAPIKey returns the emoji-api.com access key from the
// INKPICK_EMOJI_API_KEY env var, falling back to the system keyring.
func GetEmojiAPIKey() (string, error) {
	return get(emojiAPIKeyUser, consts.EnvPrefix+"EMOJI_API_KEY")
}

// GetSlackToken returns the Slack user token from the INKPICK_SLACK_TOKEN
// env var, falling back to the system keyring.
func GetSlackToken() (string, error) {
	return get(slackTokenUser, consts.EnvPrefix+"SLACK_TOKEN")
}

// SetEmojiAPIKey stores the emoji-api.com access key in the system keyring.
func SetEmojiAPIKey(key string) error {
	return gokeyring.Set(consts.Name, emojiAPIKeyUser, key)
}

// SetSlackToken stores the Slack user token in the system keyring.
func SetSlackToken(token string) error {
	return gokeyring.Set(consts.Name, slackTokenUser, token)
}

// DeleteEmojiAPIKey removes the access key from the system keyring.
func DeleteEmojiAPIKey() error {
	return gokeyring.Delete(consts.Name, emojiAPIKeyUser)
}

// DeleteSlackToken removes the Slack token from the system keyring.
func DeleteSlackToken() error {
	return gokeyring.Delete(consts.Name, slackTokenUser)
}

func get(user, env string) (string, error) {
	if v := os.Getenv(env); v != "" {
		return v, nil
	}
	return gokeyring.Get(consts.Name, user)
}
