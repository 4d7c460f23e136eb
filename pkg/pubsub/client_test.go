package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/angelmondragon/orderdesk-backend/pkg/config"
)

func TestTopicResourceName(t *testing.T) {
	cases := []struct {
		name    string
		project string
		topic   string
		want    string
	}{
		{name: "bare id", project: "desk", topic: "order-events", want: "projects/desk/topics/order-events"},
		{name: "full name kept", project: "desk", topic: "projects/other/topics/x", want: "projects/other/topics/x"},
		{name: "blank topic", project: "desk", topic: "  ", want: ""},
		{name: "missing project", project: "", topic: "order-events", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TopicResourceName(tc.project, tc.topic))
		})
	}
}

func TestTopicNamesSkipsBlank(t *testing.T) {
	assert.Empty(t, topicNames(config.PubSubConfig{}))
	assert.Equal(t, []string{"order-events"}, topicNames(config.PubSubConfig{OrdersTopic: " order-events "}))
}

func TestClientOptionsPrefersInlineCredentials(t *testing.T) {
	assert.Nil(t, clientOptions(config.GCPConfig{ProjectID: "desk"}))
	assert.Len(t, clientOptions(config.GCPConfig{CredentialsJSON: `{"type":"service_account"}`, ApplicationCredentials: "/tmp/key.json"}), 1)
	assert.Len(t, clientOptions(config.GCPConfig{ApplicationCredentials: "/tmp/key.json"}), 1)
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	assert.Nil(t, c.Publisher("order-events"))
	assert.NoError(t, c.Close())
	assert.Error(t, c.Ping(t.Context()))
}
