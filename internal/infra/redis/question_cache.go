package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"alba-quiz-service/internal/app"
	"alba-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionCache decorates a QuestionRepository with per-question Redis
// entries: GET/SET question:{id} holding the question JSON. Filtered Find
// calls pass straight through since their shape varies per request; the hot
// path is the per-answer FindByID during submission and aggregation.
type QuestionCache struct {
	client *redis.Client
	inner  app.QuestionRepository
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionCache(client *redis.Client, inner app.QuestionRepository, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) Find(ctx context.Context, filter app.QuestionFilter) ([]domain.Question, error) {
	return c.inner.Find(ctx, filter)
}

func (c *QuestionCache) FindByID(ctx context.Context, id string) (domain.Question, error) {
	key := c.key(id)

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var question domain.Question
		if err := json.Unmarshal(data, &question); err == nil {
			return question, nil
		}
		// Corrupt entry: fall through and refill.
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		// Re-check in case another goroutine filled it.
		if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
			var question domain.Question
			if err := json.Unmarshal(data, &question); err == nil {
				return question, nil
			}
		}

		question, err := c.inner.FindByID(ctx, id)
		if err != nil {
			return domain.Question{}, err
		}

		if data, err := json.Marshal(question); err == nil {
			_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		}
		return question, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

func (c *QuestionCache) key(id string) string {
	return "question:" + id
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
