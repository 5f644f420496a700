package health

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormChecker struct{ db *gorm.DB }

func NewGormChecker(db *gorm.DB) Checker { return gormChecker{db: db} }

func (c gormChecker) Check(ctx context.Context) CheckResult {
	res := CheckResult{Name: "directory"}
	sqlDB, err := c.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Healthy = true
	return res
}

type redisChecker struct{ client redis.UniversalClient }

func NewRedisChecker(client redis.UniversalClient) Checker { return redisChecker{client: client} }

func (c redisChecker) Check(ctx context.Context) CheckResult {
	res := CheckResult{Name: "session_store"}
	if err := c.client.Ping(ctx).Err(); err != nil {
		res.Error = err.Error()
		return res
	}
	res.Healthy = true
	return res
}

// PingFunc adapts a plain function into a Checker, for stores that are
// always reachable (in-memory) or checked another way.
type PingFunc struct {
	Name string
	Fn   func(ctx context.Context) error
}

func (p PingFunc) Check(ctx context.Context) CheckResult {
	res := CheckResult{Name: p.Name}
	if p.Fn != nil {
		if err := p.Fn(ctx); err != nil {
			res.Error = err.Error()
			return res
		}
	}
	res.Healthy = true
	return res
}
