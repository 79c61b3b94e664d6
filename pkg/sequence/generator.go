package sequence

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"admissions-backoffice/pkg/rediskey"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

//go:generate mockgen -source=generator.go -destination=mock/generator_mock.go -package=mock

var Module = fx.Module("sequence",
	fx.Provide(NewRedisGenerator),
)

// Generator hands out human-readable sequential identifiers. Every number is
// taken from an atomic counter so concurrent requests never share one.
type Generator interface {
	NextApplicationNumber(ctx context.Context, year int) (string, error)
	NextReceiptNumber(ctx context.Context, year int) (string, error)
	NextVoucherSerial(ctx context.Context) (string, error)
	NextVoucherCode(ctx context.Context, prefix string) (string, error)
}

type RedisGenerator struct {
	rdb *redis.Client
	now func() time.Time
}

type Params struct {
	fx.In

	Redis *redis.Client
}

func NewRedisGenerator(p Params) Generator {
	return &RedisGenerator{
		rdb: p.Redis,
		now: time.Now,
	}
}

func (g *RedisGenerator) NextApplicationNumber(ctx context.Context, year int) (string, error) {
	seq, err := g.rdb.Incr(ctx, rediskey.ApplicationSeqKey(year)).Result()
	if err != nil {
		return "", err
	}
	return FormatYearly("APP", year, seq, 5), nil
}

func (g *RedisGenerator) NextReceiptNumber(ctx context.Context, year int) (string, error) {
	seq, err := g.rdb.Incr(ctx, rediskey.ReceiptSeqKey(year)).Result()
	if err != nil {
		return "", err
	}
	return FormatYearly("RCP", year, seq, 6), nil
}

func (g *RedisGenerator) NextVoucherSerial(ctx context.Context) (string, error) {
	return g.nextDailyCode(ctx, "VS")
}

func (g *RedisGenerator) NextVoucherCode(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		prefix = "VCH"
	}
	return g.nextDailyCode(ctx, strings.ToUpper(prefix))
}

func (g *RedisGenerator) nextDailyCode(ctx context.Context, prefix string) (string, error) {
	today := g.now().UTC().Format("060102")
	key := rediskey.DailySeqKey(prefix, today)

	seq, err := g.rdb.Incr(ctx, key).Result()
	if err != nil {
		return "", err
	}

	if seq == 1 {
		_ = g.rdb.Expire(ctx, key, 48*time.Hour).Err()
	}

	randSuffix, err := randomAlphaNumeric(2)
	if err != nil {
		return "", err
	}

	return FormatDaily(prefix, today, seq, randSuffix), nil
}

// FormatYearly renders e.g. RCP-2026-000042.
func FormatYearly(prefix string, year int, seq int64, width int) string {
	return fmt.Sprintf("%s-%d-%0*d", prefix, year, width, seq)
}

// FormatDaily renders prefix-YYMMDD-<base36 seq, min 3 chars><suffix>.
func FormatDaily(prefix, day string, seq int64, suffix string) string {
	encoded := strings.ToUpper(strconv.FormatInt(seq, 36))
	if len(encoded) < 3 {
		encoded = strings.Repeat("0", 3-len(encoded)) + encoded
	}
	return fmt.Sprintf("%s-%s-%s%s", prefix, day, encoded, suffix)
}

func randomAlphaNumeric(n int) (string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	b := make([]byte, n)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			return "", err
		}
		b[i] = chars[num.Int64()]
	}
	return string(b), nil
}
