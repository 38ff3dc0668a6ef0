package articles

import "context"

type API interface {
	// Record filters out quiz and already seen URLs, stores the rest
	// and returns them in the original order.
	Record(ctx context.Context, urls []string) (fresh []string, err error)

	// Seen checks whether a URL has been recorded before.
	Seen(ctx context.Context, url string) (bool, error)

	Close(ctx context.Context) error
}

type Article struct {
	URL    string `json:"url" bson:"url"`
	SeenAt int64  `json:"seen_at" bson:"seen_at"`
}
