package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// EvaluateInput contains the input for the Evaluate use case.
type EvaluateInput struct {
	GuildID            snowflake.ID
	UserID             snowflake.ID
	Action             domain.SessionAction
	FromCentralChannel bool
}

// EvaluateOutput contains the result of the Evaluate use case.
type EvaluateOutput struct {
	Decision domain.SessionDecision

	// VoiceChannelID is the requester's voice channel, zero when not in voice.
	VoiceChannelID snowflake.ID

	// Config is the guild configuration the decision was made with. Never nil.
	Config *domain.GuildConfig
}

// PolicyService gathers the facts a session decision needs and evaluates it.
type PolicyService struct {
	repo        domain.SessionRepository
	configs     ports.GuildConfigStore
	voiceState  ports.VoiceStateProvider
	permissions ports.PermissionChecker
	roles       ports.MemberRoleProvider
}

// NewPolicyService creates a new PolicyService.
func NewPolicyService(
	repo domain.SessionRepository,
	configs ports.GuildConfigStore,
	voiceState ports.VoiceStateProvider,
	permissions ports.PermissionChecker,
	roles ports.MemberRoleProvider,
) *PolicyService {
	return &PolicyService{
		repo:        repo,
		configs:     configs,
		voiceState:  voiceState,
		permissions: permissions,
		roles:       roles,
	}
}

// Evaluate decides whether a request may proceed.
// A configuration store failure yields ErrPolicyUnavailable.
func (p *PolicyService) Evaluate(ctx context.Context, input EvaluateInput) (*EvaluateOutput, error) {
	config, err := p.configs.FindByGuildID(ctx, input.GuildID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPolicyUnavailable, err)
	}
	if config == nil {
		config = domain.NewGuildConfig(input.GuildID)
	}

	voiceChannelID, err := p.voiceState.GetUserVoiceChannel(input.GuildID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get voice state: %w", err)
	}

	var canJoin bool
	if voiceChannelID != 0 && input.Action.ConnectsVoice() {
		canJoin, err = p.permissions.CanJoin(input.GuildID, voiceChannelID)
		if err != nil {
			return nil, fmt.Errorf("failed to check voice permissions: %w", err)
		}
	}

	var roleIDs []snowflake.ID
	if needsRoles(config) {
		roleIDs, err = p.roles.MemberRoles(input.GuildID, input.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get member roles: %w", err)
		}
	}

	decision := domain.EvaluateSession(domain.PolicyInput{
		Action:                  input.Action,
		RequesterVoiceChannelID: voiceChannelID,
		RequesterRoleIDs:        roleIDs,
		CanJoin:                 canJoin,
		FromCentralChannel:      input.FromCentralChannel,
		Session:                 p.repo.Get(input.GuildID),
		Config:                  config,
	})

	slog.Debug(
		"session policy evaluated",
		"guild", input.GuildID,
		"user", input.UserID,
		"action", input.Action,
		"outcome", decision.Outcome,
	)

	return &EvaluateOutput{
		Decision:       decision,
		VoiceChannelID: voiceChannelID,
		Config:         config,
	}, nil
}

// Authorize evaluates the request and turns a Deny decision into a *DeniedError.
func (p *PolicyService) Authorize(ctx context.Context, input EvaluateInput) (*EvaluateOutput, error) {
	output, err := p.Evaluate(ctx, input)
	if err != nil {
		return nil, err
	}
	if output.Decision.IsDenied() {
		return nil, &DeniedError{Reason: output.Decision.Reason}
	}
	return output, nil
}

func needsRoles(config *domain.GuildConfig) bool {
	return config.Settings.DJRoleID != 0 ||
		(config.Central.Enabled && len(config.Central.AllowedRoleIDs) > 0)
}
