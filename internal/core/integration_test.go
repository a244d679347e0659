package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plugsetup/pkg/schema"
)

// TestIntegration_FullSetupConversation drives a complete happy-path setup:
// begin, prompt for each field, validate the key, install a dependency, save
// the collected values, test the connection, and complete.
func TestIntegration_FullSetupConversation(t *testing.T) {
	f := newDispatcherFixture()
	ctx := context.Background()

	res := f.dispatcher.Begin(ctx, BeginRequest{
		SessionID: "conv-1",
		PluginID:  "discord-notifier",
		Schema:    tokenSchema(),
	})
	require.False(t, res.IsError)

	// Walk the schema, prompting for each field.
	session := f.store.Get("conv-1")
	require.NotNil(t, session)
	for _, field := range session.Schema.Fields {
		res := f.dispatcher.Ask(ctx, AskRequest{SessionID: "conv-1", Field: field.Name})
		require.False(t, res.IsError, "prompt for %s: %s", field.Name, res.Text())
		require.NotEmpty(t, res.Text())
	}

	// Validate the credential before saving it.
	res = f.dispatcher.ValidateKey(ctx, ValidateKeyRequest{Provider: "openai", Key: "sk-123"})
	require.False(t, res.IsError)

	// Install the dependency the plugin needs.
	res = f.dispatcher.InstallDependency(ctx, InstallDependencyRequest{
		SessionID: "conv-1", PluginID: "webhook-relay",
	})
	require.False(t, res.IsError)

	// Save the collected values.
	res = f.dispatcher.SaveConfig(ctx, SaveConfigRequest{
		SessionID: "conv-1", Key: "token", Value: schema.StringValue("sk-123"),
	})
	require.False(t, res.IsError)
	res = f.dispatcher.SaveConfig(ctx, SaveConfigRequest{
		SessionID: "conv-1", Key: "endpoint", Value: schema.StringValue("https://api.example.com"),
	})
	require.False(t, res.IsError)

	// Verify connectivity.
	res = f.dispatcher.TestConnection(ctx, TestConnectionRequest{Service: "discord"})
	require.False(t, res.IsError)

	// Finalize.
	res = f.dispatcher.Complete(ctx, CompleteRequest{SessionID: "conv-1"})
	require.False(t, res.IsError)

	// Three mutations were recorded in order.
	session = f.store.Get("conv-1")
	require.NotNil(t, session)
	require.Len(t, session.Mutations, 3)
	assert.Equal(t, schema.MutationInstallDependency, session.Mutations[0].MutationType())
	assert.Equal(t, schema.MutationSaveConfig, session.Mutations[1].MutationType())
	assert.Equal(t, schema.MutationSaveConfig, session.Mutations[2].MutationType())

	// The completion notification names the configured fields.
	require.Len(t, f.notifier.Events, 1)
	assert.Equal(t, EventSetupCompleted, f.notifier.Events[0].Name)
	assert.Equal(t, []string{"token", "endpoint"}, f.notifier.Events[0].Payload["fields"])

	// The persisted configuration holds both values.
	assert.Equal(t, schema.StringValue("sk-123"), f.configs.Config["token"])
	assert.Equal(t, schema.StringValue("https://api.example.com"), f.configs.Config["endpoint"])
}

// TestIntegration_AbandonedSetupLeavesNoResidue is the core guarantee: a
// setup that installed modules and wrote config, then rolled back, leaves
// the configuration and the platform exactly as they were.
func TestIntegration_AbandonedSetupLeavesNoResidue(t *testing.T) {
	f := newDispatcherFixture()
	ctx := context.Background()

	// Pre-existing configuration unrelated to this setup.
	f.configs.Config["unrelated"] = schema.StringValue("keep-me")

	res := f.dispatcher.Begin(ctx, BeginRequest{
		SessionID: "conv-2",
		PluginID:  "discord-notifier",
		Schema:    tokenSchema(),
	})
	require.False(t, res.IsError)

	f.dispatcher.InstallDependency(ctx, InstallDependencyRequest{
		SessionID: "conv-2", PluginID: "webhook-relay",
	})
	f.dispatcher.SaveConfig(ctx, SaveConfigRequest{
		SessionID: "conv-2", Key: "token", Value: schema.StringValue("sk-abandoned"),
	})
	require.Contains(t, f.configs.Config, "token")

	res = f.dispatcher.Rollback(ctx, RollbackRequest{SessionID: "conv-2"})
	require.False(t, res.IsError, res.Text())

	// No residue: installed module removed, config key gone, session gone.
	assert.Equal(t, []string{"webhook-relay"}, f.installer.UninstallCalls)
	assert.NotContains(t, f.configs.Config, "token")
	assert.Equal(t, schema.StringValue("keep-me"), f.configs.Config["unrelated"])
	assert.Nil(t, f.store.Get("conv-2"))

	require.Len(t, f.notifier.Events, 1)
	assert.Equal(t, EventSetupRolledBack, f.notifier.Events[0].Name)
	assert.Equal(t, 0, f.notifier.Events[0].Payload["failures"])
}

// TestIntegration_RetryAfterValidationFailure exercises the non-fatal error
// paths: a rejected value and a failed install do not end the conversation.
func TestIntegration_RetryAfterValidationFailure(t *testing.T) {
	f := newDispatcherFixture()
	ctx := context.Background()

	res := f.dispatcher.Begin(ctx, BeginRequest{
		SessionID: "conv-3",
		PluginID:  "discord-notifier",
		Schema:    tokenSchema(),
	})
	require.False(t, res.IsError)

	// Empty required value rejected, session still usable.
	res = f.dispatcher.SaveConfig(ctx, SaveConfigRequest{
		SessionID: "conv-3", Key: "token", Value: schema.StringValue(""),
	})
	require.True(t, res.IsError)
	assert.Contains(t, res.Text(), "required")

	// Failing install reported, nothing recorded.
	f.installer.InstallErrs["flaky-dep"] = &CapabilityError{
		Operation: "install flaky-dep", Status: 502, Message: "bad gateway",
	}
	res = f.dispatcher.InstallDependency(ctx, InstallDependencyRequest{
		SessionID: "conv-3", PluginID: "flaky-dep",
	})
	require.True(t, res.IsError)

	// Both operations succeed on retry.
	delete(f.installer.InstallErrs, "flaky-dep")
	res = f.dispatcher.SaveConfig(ctx, SaveConfigRequest{
		SessionID: "conv-3", Key: "token", Value: schema.StringValue("sk-retry"),
	})
	require.False(t, res.IsError)
	res = f.dispatcher.InstallDependency(ctx, InstallDependencyRequest{
		SessionID: "conv-3", PluginID: "flaky-dep",
	})
	require.False(t, res.IsError)

	session := f.store.Get("conv-3")
	require.Len(t, session.Mutations, 2, "only successful operations are recorded")
}
