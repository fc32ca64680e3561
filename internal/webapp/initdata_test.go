package webapp

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123456:ABC-DEF"

func launchValues(authDate time.Time) url.Values {
	v := url.Values{}
	v.Set("query_id", "AAHdF6IQAAAAAN0XohDhrOrc")
	v.Set("user", `{"id":279058397,"first_name":"Vladislav","last_name":"Kibenko","username":"vdkfrost","language_code":"ru"}`)
	v.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	return v
}

func TestValidate(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := NewValidator(testToken, time.Hour)
	v.now = func() time.Time { return now }

	raw := Sign(testToken, launchValues(now.Add(-time.Minute)))

	data, err := v.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(279058397), data.User.ID)
	assert.Equal(t, "vdkfrost", data.User.Username)
	assert.Equal(t, "AAHdF6IQAAAAAN0XohDhrOrc", data.QueryID)
	assert.Equal(t, now.Add(-time.Minute).Unix(), data.AuthDate.Unix())
}

func TestValidate_Tampered(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := NewValidator(testToken, 0)

	raw := Sign(testToken, launchValues(now))
	tampered := strings.Replace(raw, "279058397", "1", 1)

	_, err := v.Validate(tampered)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidate_WrongBot(t *testing.T) {
	v := NewValidator("other:token", 0)

	_, err := v.Validate(Sign(testToken, launchValues(time.Now())))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidate_Expired(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := NewValidator(testToken, time.Hour)
	v.now = func() time.Time { return now }

	_, err := v.Validate(Sign(testToken, launchValues(now.Add(-2*time.Hour))))
	assert.ErrorIs(t, err, ErrExpired)
}

func TestValidate_MissingFields(t *testing.T) {
	v := NewValidator(testToken, 0)

	_, err := v.Validate("auth_date=1&user=%7B%7D")
	assert.ErrorIs(t, err, ErrMissingHash)

	noUser := url.Values{}
	noUser.Set("auth_date", "1700000000")
	_, err = v.Validate(Sign(testToken, noUser))
	assert.ErrorIs(t, err, ErrMissingUser)
}
