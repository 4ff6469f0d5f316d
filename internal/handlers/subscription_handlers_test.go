package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/videohub/internal/models"
	"github.com/Skotchmaster/videohub/internal/repo"
)

func toggleSubscription(t *testing.T, env *testEnv, subscriber *models.User, channelID uuid.UUID) (int, error) {
	t.Helper()

	rec, c := env.doJSONRequest(http.MethodPost,
		"/api/v1/subscriptions/"+channelID.String(), nil)
	c.SetParamNames("channelId")
	c.SetParamValues(channelID.String())
	env.asPrincipal(c, subscriber)

	return rec.Code, env.S.Toggle(c)
}

func TestSubscriptionToggle(t *testing.T) {
	env := newTestEnv(t)
	subscriber := env.createUser("viewer", "viewer@example.com")
	channel := env.createUser("creator", "creator@example.com")

	code, err := toggleSubscription(t, env, subscriber, channel.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, code)

	subscribed, err := env.Subscriptions.IsSubscribed(t.Context(), subscriber.ID, channel.ID)
	require.NoError(t, err)
	require.True(t, subscribed)

	// toggling again unsubscribes
	code, err = toggleSubscription(t, env, subscriber, channel.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)

	subscribed, err = env.Subscriptions.IsSubscribed(t.Context(), subscriber.ID, channel.ID)
	require.NoError(t, err)
	require.False(t, subscribed)
}

func TestSubscriptionToggleUnknownChannel(t *testing.T) {
	env := newTestEnv(t)
	subscriber := env.createUser("viewer", "viewer@example.com")

	_, err := toggleSubscription(t, env, subscriber, uuid.New())
	requireAPIError(t, err, http.StatusNotFound)
}

func TestSubscribedChannels(t *testing.T) {
	env := newTestEnv(t)
	subscriber := env.createUser("viewer", "viewer@example.com")
	first := env.createUser("first_creator", "first@example.com")
	second := env.createUser("second_creator", "second@example.com")

	for _, channel := range []*models.User{first, second} {
		_, err := toggleSubscription(t, env, subscriber, channel.ID)
		require.NoError(t, err)
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/subscriptions/channels", nil)
	env.asPrincipal(c, subscriber)

	require.NoError(t, env.S.SubscribedChannels(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var channels []repo.ChannelInfo
	decodeEnvelope(t, rec, &channels)
	require.Len(t, channels, 2)

	names := []string{channels[0].Username, channels[1].Username}
	require.ElementsMatch(t, []string{"first_creator", "second_creator"}, names)
}

func TestGetChannel(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.createUser("viewer", "viewer@example.com")
	creator := env.createUser("creator", "creator@example.com")

	_, err := toggleSubscription(t, env, viewer, creator.ID)
	require.NoError(t, err)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/channels/@creator", nil)
	c.SetParamNames("username")
	c.SetParamValues("creator")
	env.asPrincipal(c, viewer)

	require.NoError(t, env.Ch.GetChannel(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Channel          models.User `json:"channel"`
		SubscribersCount int64       `json:"subscribersCount"`
		IsSubscribed     bool        `json:"isSubscribed"`
	}
	decodeEnvelope(t, rec, &data)
	require.Equal(t, "creator", data.Channel.Username)
	require.EqualValues(t, 1, data.SubscribersCount)
	require.True(t, data.IsSubscribed)
}

func TestGetChannelNotFound(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.createUser("viewer", "viewer@example.com")

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/channels/@ghost", nil)
	c.SetParamNames("username")
	c.SetParamValues("ghost")
	env.asPrincipal(c, viewer)

	requireAPIError(t, env.Ch.GetChannel(c), http.StatusNotFound)
}
