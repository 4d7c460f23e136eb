package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	pubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/angelmondragon/orderdesk-backend/pkg/config"
	"github.com/angelmondragon/orderdesk-backend/pkg/logger"
)

// Client publishes domain events to the configured Pub/Sub topics.
type Client struct {
	client    *pubsub.Client
	projectID string
	cfg       config.PubSubConfig

	mu         sync.Mutex
	publishers map[string]*pubsub.Publisher
}

var (
	errProjectIDRequired = errors.New("gcp project id is required")
	errNoTopics          = errors.New("pubsub topic name is required")
)

// NewClient creates a Pub/Sub v2 client and ensures the configured topics exist.
func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(gcp.ProjectID) == "" {
		return nil, errProjectIDRequired
	}

	psClient, err := pubsub.NewClient(ctx, gcp.ProjectID, clientOptions(gcp)...)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	c := &Client{
		client:     psClient,
		projectID:  gcp.ProjectID,
		cfg:        cfg,
		publishers: map[string]*pubsub.Publisher{},
	}

	if err := c.ensureTopicsConfigured(ctx); err != nil {
		_ = psClient.Close()
		return nil, err
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "topics", topicNames(cfg)), "pubsub client initialized")
	}

	return c, nil
}

func clientOptions(gcp config.GCPConfig) []option.ClientOption {
	if raw := strings.TrimSpace(gcp.CredentialsJSON); raw != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(raw))}
	}
	if path := strings.TrimSpace(gcp.ApplicationCredentials); path != "" {
		return []option.ClientOption{option.WithCredentialsFile(path)}
	}
	return nil
}

func (c *Client) ensureTopicsConfigured(ctx context.Context) error {
	names := topicNames(c.cfg)
	if len(names) == 0 {
		return errNoTopics
	}
	for _, name := range names {
		if err := c.ensureTopicExists(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func topicNames(cfg config.PubSubConfig) []string {
	names := []string{}
	for _, name := range []string{cfg.OrdersTopic} {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

func (c *Client) ensureTopicExists(ctx context.Context, name string) error {
	fullName := c.topicResourceName(name)
	if fullName == "" {
		return fmt.Errorf("topic %q not configured", name)
	}

	_, err := c.client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: fullName})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("topic %q does not exist", name)
		}
		return fmt.Errorf("checking topic %q: %w", name, err)
	}
	return nil
}

// Publisher returns a cached, ordering-enabled publisher for the topic ID or resource name.
func (c *Client) Publisher(name string) *pubsub.Publisher {
	if c == nil || c.client == nil {
		return nil
	}
	fullName := c.topicResourceName(name)
	if fullName == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.publishers[fullName]; ok {
		return p
	}
	p := c.client.Publisher(fullName)
	p.EnableMessageOrdering = true
	c.publishers[fullName] = p
	return p
}

// OrdersPublisher returns the publisher for order lifecycle events.
func (c *Client) OrdersPublisher() *pubsub.Publisher {
	return c.Publisher(c.cfg.OrdersTopic)
}

// Ping verifies Pub/Sub connectivity by checking the configured topics exist.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("pubsub client not initialized")
	}
	return c.ensureTopicsConfigured(ctx)
}

// Close flushes cached publishers and releases the client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	c.mu.Lock()
	for _, p := range c.publishers {
		p.Stop()
	}
	c.publishers = map[string]*pubsub.Publisher{}
	c.mu.Unlock()
	return c.client.Close()
}

func (c *Client) topicResourceName(name string) string {
	if c == nil {
		return ""
	}
	return TopicResourceName(c.projectID, name)
}

// TopicResourceName expands a bare topic ID into its full resource name.
func TopicResourceName(projectID, name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	if strings.HasPrefix(n, "projects/") && strings.Contains(n, "/topics/") {
		return n
	}
	p := strings.TrimSpace(projectID)
	if p == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/topics/%s", p, n)
}
