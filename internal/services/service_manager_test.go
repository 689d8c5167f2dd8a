package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/crime-report-service/internal/config"
	"github.com/SAP-F-2025/crime-report-service/internal/validator"
	"github.com/SAP-F-2025/crime-report-service/internal/vision"
)

func TestServiceManager_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	cfg := ServiceManagerConfig{
		AuthProvider: config.AuthProviderLocal,
		Auth:         config.AuthConfig{JWTSecret: testSecret, JWTTTL: time.Hour},
	}
	sm := NewServiceManager(env.db, env.repo, env.logger, env.validator, Dependencies{Publisher: env.publisher}, cfg)
	ctx := context.Background()

	assert.Panics(t, func() { sm.Report() })
	assert.Error(t, sm.HealthCheck(ctx))

	require.NoError(t, sm.Initialize(ctx))
	require.NoError(t, sm.Initialize(ctx), "initialize is idempotent")

	assert.NotNil(t, sm.Report())
	assert.NotNil(t, sm.Analysis())
	assert.NotNil(t, sm.User())
	assert.NotNil(t, sm.Auth())
	assert.Equal(t, "local", sm.Session().Name())
	assert.NotNil(t, sm.Notification())
	assert.NotNil(t, sm.Dashboard())
	assert.NotNil(t, sm.Export())

	assert.NoError(t, sm.HealthCheck(ctx))

	require.NoError(t, sm.Shutdown(ctx))
	assert.Error(t, sm.HealthCheck(ctx))
}

func TestServiceManager_AnalysisWithoutVisionClient(t *testing.T) {
	env := newTestEnv(t)
	cfg := ServiceManagerConfig{
		AuthProvider: config.AuthProviderLocal,
		Auth:         config.AuthConfig{JWTSecret: testSecret, JWTTTL: time.Hour},
	}
	sm := NewServiceManager(env.db, env.repo, env.logger, env.validator, Dependencies{Publisher: env.publisher}, cfg)
	require.NoError(t, sm.Initialize(context.Background()))

	draft, err := sm.Analysis().Analyze(context.Background(), "data:image/png;base64,aGVsbG8=")
	assert.Nil(t, draft)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.ErrorIs(t, err, vision.ErrNotConfigured)
	assert.True(t, IsAnalysisError(err))
}

func TestServiceManagerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceManagerConfig
		wantErr bool
	}{
		{
			name: "defaults to strict policy",
			cfg:  ServiceManagerConfig{Auth: config.AuthConfig{JWTSecret: "s", JWTTTL: time.Hour}},
		},
		{
			name: "casdoor needs no local secret",
			cfg:  ServiceManagerConfig{AuthProvider: config.AuthProviderCasdoor, TransitionPolicy: validator.TransitionPolicyUnrestricted},
		},
		{
			name:    "unknown policy",
			cfg:     ServiceManagerConfig{TransitionPolicy: "loose", Auth: config.AuthConfig{JWTSecret: "s", JWTTTL: time.Hour}},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     ServiceManagerConfig{AuthProvider: "ldap"},
			wantErr: true,
		},
		{
			name:    "local without secret",
			cfg:     ServiceManagerConfig{AuthProvider: config.AuthProviderLocal, Auth: config.AuthConfig{JWTTTL: time.Hour}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, tt.cfg.TransitionPolicy)
		})
	}
}
