package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

const guildConfigKeyPrefix = "tunedeck:guild:"

// Hash fields of a stored guild configuration.
const (
	fieldCentralEnabled         = "central.enabled"
	fieldCentralChannelID       = "central.channelID"
	fieldCentralEmbedID         = "central.embedID"
	fieldCentralVoiceChannelID  = "central.voiceChannelID"
	fieldCentralAllowedRoleIDs  = "central.allowedRoleIDs"
	fieldDeleteNonMusicMessages = "central.deleteNonMusicMessages"
	fieldPrefix                 = "settings.prefix"
	fieldAutoplay               = "settings.autoplay"
	fieldDefaultVolume          = "settings.defaultVolume"
	fieldDJRoleID               = "settings.djRoleID"
)

const scanBatchSize = 100

var _ ports.GuildConfigStore = (*RedisConfigStore)(nil)

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}

// RedisConfigStore stores each guild configuration as a Redis hash.
// Upserts only write the patched fields.
type RedisConfigStore struct {
	client *redis.Client
}

// NewRedisConfigStore creates a new RedisConfigStore.
func NewRedisConfigStore(client *redis.Client) *RedisConfigStore {
	return &RedisConfigStore{client: client}
}

// FindByGuildID returns the stored configuration, or nil if the guild has none.
func (s *RedisConfigStore) FindByGuildID(
	ctx context.Context,
	guildID snowflake.ID,
) (*domain.GuildConfig, error) {
	fields, err := s.client.HGetAll(ctx, guildConfigKey(guildID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load guild config: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return decodeGuildConfig(guildID, fields)
}

// Upsert writes the non-nil fields of patch.
func (s *RedisConfigStore) Upsert(
	ctx context.Context,
	guildID snowflake.ID,
	patch domain.GuildConfigPatch,
) error {
	fields := encodeGuildConfigPatch(patch)
	if len(fields) == 0 {
		return nil
	}
	if err := s.client.HSet(ctx, guildConfigKey(guildID), fields).Err(); err != nil {
		return fmt.Errorf("failed to store guild config: %w", err)
	}
	return nil
}

// ListCentralEnabled scans every stored guild and returns those with the central system enabled.
func (s *RedisConfigStore) ListCentralEnabled(ctx context.Context) ([]*domain.GuildConfig, error) {
	var result []*domain.GuildConfig

	iter := s.client.Scan(ctx, 0, guildConfigKeyPrefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		guildID, err := snowflake.Parse(strings.TrimPrefix(key, guildConfigKeyPrefix))
		if err != nil {
			continue
		}

		enabled, err := s.client.HGet(ctx, key, fieldCentralEnabled).Result()
		if err != nil && !isMissing(err) {
			return nil, fmt.Errorf("failed to read central flag: %w", err)
		}
		if enabled != "1" {
			continue
		}

		cfg, err := s.FindByGuildID(ctx, guildID)
		if err != nil {
			return nil, err
		}
		if cfg != nil {
			result = append(result, cfg)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan guild configs: %w", err)
	}
	return result, nil
}

// Close closes the Redis client.
func (s *RedisConfigStore) Close() error {
	return s.client.Close()
}

func guildConfigKey(guildID snowflake.ID) string {
	return guildConfigKeyPrefix + guildID.String()
}

func encodeGuildConfigPatch(patch domain.GuildConfigPatch) map[string]string {
	fields := make(map[string]string)

	if patch.CentralEnabled != nil {
		fields[fieldCentralEnabled] = encodeBool(*patch.CentralEnabled)
	}
	if patch.CentralChannelID != nil {
		fields[fieldCentralChannelID] = patch.CentralChannelID.String()
	}
	if patch.CentralEmbedID != nil {
		fields[fieldCentralEmbedID] = patch.CentralEmbedID.String()
	}
	if patch.CentralVoiceChannelID != nil {
		fields[fieldCentralVoiceChannelID] = patch.CentralVoiceChannelID.String()
	}
	if patch.CentralAllowedRoleIDs != nil {
		ids := make([]string, len(*patch.CentralAllowedRoleIDs))
		for i, id := range *patch.CentralAllowedRoleIDs {
			ids[i] = id.String()
		}
		fields[fieldCentralAllowedRoleIDs] = strings.Join(ids, ",")
	}
	if patch.DeleteNonMusicMessages != nil {
		fields[fieldDeleteNonMusicMessages] = encodeBool(*patch.DeleteNonMusicMessages)
	}
	if patch.Prefix != nil {
		fields[fieldPrefix] = *patch.Prefix
	}
	if patch.Autoplay != nil {
		fields[fieldAutoplay] = encodeBool(*patch.Autoplay)
	}
	if patch.DefaultVolume != nil {
		fields[fieldDefaultVolume] = strconv.Itoa(domain.ClampVolume(*patch.DefaultVolume))
	}
	if patch.DJRoleID != nil {
		fields[fieldDJRoleID] = patch.DJRoleID.String()
	}

	return fields
}

// decodeGuildConfig builds a configuration from hash fields.
// Missing fields keep their defaults.
func decodeGuildConfig(guildID snowflake.ID, fields map[string]string) (*domain.GuildConfig, error) {
	cfg := domain.NewGuildConfig(guildID)

	var err error
	parseID := func(field string, dst *snowflake.ID) {
		value, ok := fields[field]
		if !ok || value == "" || err != nil {
			return
		}
		var id snowflake.ID
		if id, err = snowflake.Parse(value); err != nil {
			err = fmt.Errorf("invalid %s %q: %w", field, value, err)
			return
		}
		*dst = id
	}

	cfg.Central.Enabled = fields[fieldCentralEnabled] == "1"
	cfg.Central.DeleteNonMusicMessages = fields[fieldDeleteNonMusicMessages] == "1"
	cfg.Settings.Autoplay = fields[fieldAutoplay] == "1"

	parseID(fieldCentralChannelID, &cfg.Central.ChannelID)
	parseID(fieldCentralEmbedID, &cfg.Central.EmbedID)
	parseID(fieldCentralVoiceChannelID, &cfg.Central.VoiceChannelID)
	parseID(fieldDJRoleID, &cfg.Settings.DJRoleID)
	if err != nil {
		return nil, err
	}

	if roles := fields[fieldCentralAllowedRoleIDs]; roles != "" {
		for _, value := range strings.Split(roles, ",") {
			id, err := snowflake.Parse(value)
			if err != nil {
				return nil, fmt.Errorf("invalid %s %q: %w", fieldCentralAllowedRoleIDs, value, err)
			}
			cfg.Central.AllowedRoleIDs = append(cfg.Central.AllowedRoleIDs, id)
		}
	}

	if prefix, ok := fields[fieldPrefix]; ok && prefix != "" {
		cfg.Settings.Prefix = prefix
	}
	if volume, ok := fields[fieldDefaultVolume]; ok {
		v, err := strconv.Atoi(volume)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", fieldDefaultVolume, volume, err)
		}
		cfg.Settings.DefaultVolume = domain.ClampVolume(v)
	}

	return cfg, nil
}

func encodeBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// isMissing reports whether err means the key or field does not exist.
func isMissing(err error) bool {
	return errors.Is(err, redis.Nil)
}
