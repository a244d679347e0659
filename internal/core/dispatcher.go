package core

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"plugsetup/pkg/schema"
)

// ContentBlock is one block of human-readable output from an operation.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the tagged outcome of a dispatcher operation. Operations never
// propagate faults past their boundary; failures come back as a Result with
// IsError set.
type Result struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"is_error"`
}

// Text returns the concatenated text of all content blocks.
func (r Result) Text() string {
	var out string
	for i, block := range r.Content {
		if i > 0 {
			out += "\n"
		}
		out += block.Text
	}
	return out
}

func textResult(format string, args ...any) Result {
	return Result{Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf(format, args...)}}}
}

func errorResult(err error) Result {
	return Result{
		Content: []ContentBlock{{Type: "text", Text: err.Error()}},
		IsError: true,
	}
}

// Request shapes for the dispatcher operations.
type (
	BeginRequest struct {
		SessionID string              `json:"session_id" validate:"required"`
		PluginID  string              `json:"plugin_id" validate:"required"`
		Schema    schema.ConfigSchema `json:"config_schema"`
	}

	AskRequest struct {
		SessionID string `json:"session_id" validate:"required"`
		Field     string `json:"field" validate:"required"`
	}

	ValidateKeyRequest struct {
		Provider string `json:"provider" validate:"required"`
		Key      string `json:"key" validate:"required"`
	}

	InstallDependencyRequest struct {
		SessionID string `json:"session_id" validate:"required"`
		PluginID  string `json:"plugin_id" validate:"required"`
	}

	TestConnectionRequest struct {
		Service string `json:"service" validate:"required"`
	}

	SaveConfigRequest struct {
		SessionID string       `json:"session_id" validate:"required"`
		Key       string       `json:"key" validate:"required"`
		Value     schema.Value `json:"value"`
	}

	CompleteRequest struct {
		SessionID string `json:"session_id" validate:"required"`
	}

	RollbackRequest struct {
		SessionID string `json:"session_id" validate:"required"`
	}
)

// Dispatcher owns the setup operations. All shared state lives in the
// injected session store; capabilities are consumed through the ports in
// capabilities.go.
type Dispatcher struct {
	store     *SessionStore
	configs   ConfigStore
	installer ModuleInstaller
	health    HealthChecker
	creds     CredentialChecker
	notifier  Notifier
	rollback  *RollbackEngine
	logger    Logger
	validate  *validator.Validate
}

// NewDispatcher wires the dispatcher over its collaborators.
func NewDispatcher(
	store *SessionStore,
	configs ConfigStore,
	installer ModuleInstaller,
	health HealthChecker,
	creds CredentialChecker,
	notifier Notifier,
	logger Logger,
) *Dispatcher {
	return &Dispatcher{
		store:     store,
		configs:   configs,
		installer: installer,
		health:    health,
		creds:     creds,
		notifier:  notifier,
		rollback:  NewRollbackEngine(configs, installer, logger),
		logger:    logger,
		validate:  validator.New(),
	}
}

// Begin creates a setup session for a plugin. An existing session with the
// same ID is overwritten; the last caller wins.
func (d *Dispatcher) Begin(ctx context.Context, req BeginRequest) Result {
	if err := d.validate.Struct(req); err != nil {
		return errorResult(err)
	}

	d.store.Create(req.SessionID, req.PluginID, req.Schema)
	d.logger.Info("setup session started",
		"session_id", req.SessionID,
		"plugin_id", req.PluginID,
		"fields", len(req.Schema.Fields),
	)
	return textResult("Setup session %s started for %s.", req.SessionID, req.PluginID)
}

// Ask renders the conversational prompt for one schema field. Pure
// formatting; no state mutation.
func (d *Dispatcher) Ask(ctx context.Context, req AskRequest) Result {
	if err := d.validate.Struct(req); err != nil {
		return errorResult(err)
	}

	session := d.store.Get(req.SessionID)
	if session == nil {
		return errorResult(&NotFoundError{SessionID: req.SessionID})
	}

	field := session.Schema.Field(req.Field)
	if field == nil {
		return errorResult(&ValidationError{
			Field: req.Field,
			Message: fmt.Sprintf("unknown field; valid fields: %v",
				session.Schema.FieldNames()),
		})
	}

	return textResult("%s", FieldPrompt(field))
}

// ValidateKey checks an API key against its provider.
func (d *Dispatcher) ValidateKey(ctx context.Context, req ValidateKeyRequest) Result {
	if err := d.validate.Struct(req); err != nil {
		return errorResult(err)
	}

	if err := d.creds.Check(ctx, req.Provider, req.Key); err != nil {
		return errorResult(err)
	}
	return textResult("The %s API key is valid.", req.Provider)
}

// InstallDependency installs a module the plugin depends on and records the
// installation in the session's ledger. Nothing is recorded on failure.
func (d *Dispatcher) InstallDependency(ctx context.Context, req InstallDependencyRequest) Result {
	if err := d.validate.Struct(req); err != nil {
		return errorResult(err)
	}

	session := d.store.Get(req.SessionID)
	if session == nil {
		return errorResult(&NotFoundError{SessionID: req.SessionID})
	}

	if err := d.installer.Install(ctx, req.PluginID); err != nil {
		return errorResult(err)
	}

	mutID, err := schema.NewMutationID()
	if err != nil {
		return errorResult(fmt.Errorf("generate mutation id: %w", err))
	}
	session.AppendMutation(&schema.InstallDependencyMutation{
		MutationID_: mutID,
		PluginID:    req.PluginID,
		Timestamp_:  time.Now(),
	})

	d.logger.Info("dependency installed",
		"session_id", session.ID,
		"plugin_id", req.PluginID,
	)
	return textResult("Installed %s.", req.PluginID)
}

// TestConnection probes a named service's health endpoint. No session is
// required.
func (d *Dispatcher) TestConnection(ctx context.Context, req TestConnectionRequest) Result {
	if err := d.validate.Struct(req); err != nil {
		return errorResult(err)
	}

	if err := d.health.Check(ctx, req.Service); err != nil {
		return errorResult(err)
	}
	return textResult("Connection to %s succeeded.", req.Service)
}

// SaveConfig validates and persists one config value, then records the write
// in the session's ledger. Validation rejections and persistence failures
// leave the session usable for retry.
func (d *Dispatcher) SaveConfig(ctx context.Context, req SaveConfigRequest) Result {
	if err := d.validate.Struct(req); err != nil {
		return errorResult(err)
	}

	session := d.store.Get(req.SessionID)
	if session == nil {
		return errorResult(&NotFoundError{SessionID: req.SessionID})
	}
	if session.Completed {
		return errorResult(&ConflictError{
			SessionID: session.ID,
			Message:   "setup already completed, no further config changes accepted",
		})
	}

	if err := schema.ValidateFieldValue(&session.Schema, req.Key, req.Value); err != nil {
		return errorResult(&ValidationError{Field: req.Key, Message: err.Error(), Err: err})
	}

	config, err := d.configs.Current()
	if err != nil {
		return errorResult(fmt.Errorf("read current config: %w", err))
	}
	config[req.Key] = req.Value
	if err := d.configs.Save(config); err != nil {
		return errorResult(fmt.Errorf("persist config: %w", err))
	}

	mutID, err := schema.NewMutationID()
	if err != nil {
		return errorResult(fmt.Errorf("generate mutation id: %w", err))
	}
	session.AppendMutation(&schema.SaveConfigMutation{
		MutationID_: mutID,
		Key:         req.Key,
		Value:       req.Value,
		Timestamp_:  time.Now(),
	})
	session.RecordValue(req.Key, req.Value)

	d.logger.Info("config value saved",
		"session_id", session.ID,
		"key", req.Key,
	)
	return textResult("Saved %s.", req.Key)
}

// Complete finalizes a session. Completion is terminal and not idempotent:
// completing twice is a conflict and never re-emits the notification. The
// session stays retrievable until the host discards it.
func (d *Dispatcher) Complete(ctx context.Context, req CompleteRequest) Result {
	if err := d.validate.Struct(req); err != nil {
		return errorResult(err)
	}

	session := d.store.Get(req.SessionID)
	if session == nil {
		return errorResult(&NotFoundError{SessionID: req.SessionID})
	}
	if session.Completed {
		return errorResult(&ConflictError{
			SessionID: session.ID,
			Message:   "setup already completed",
		})
	}

	session.Completed = true
	fields := session.CollectedFieldNames()

	d.notifier.Emit(EventSetupCompleted, map[string]any{
		"plugin_id":  session.PluginID,
		"session_id": session.ID,
		"fields":     fields,
	})

	d.logger.Info("setup completed",
		"session_id", session.ID,
		"plugin_id", session.PluginID,
		"fields", len(fields),
	)
	return textResult("Setup of %s complete. Configured fields: %v", session.PluginID, fields)
}

// Rollback undoes every mutation recorded in the session and discards it.
// Completed sessions are not eligible: complete and rollback are mutually
// exclusive terminal operations, and whichever runs second fails without
// side effects. For active sessions the session is deleted whether or not
// every compensation succeeded.
func (d *Dispatcher) Rollback(ctx context.Context, req RollbackRequest) Result {
	if err := d.validate.Struct(req); err != nil {
		return errorResult(err)
	}

	session := d.store.Get(req.SessionID)
	if session == nil {
		return errorResult(&NotFoundError{SessionID: req.SessionID})
	}
	if session.Completed {
		return errorResult(&ConflictError{
			SessionID: session.ID,
			Message:   "setup already completed, rollback is not available",
		})
	}

	attempted := len(session.Mutations)
	failures := d.rollback.Rollback(ctx, session)
	d.store.Delete(session.ID)

	d.notifier.Emit(EventSetupRolledBack, map[string]any{
		"plugin_id":  session.PluginID,
		"session_id": session.ID,
		"mutations":  attempted,
		"failures":   len(failures),
	})

	if len(failures) > 0 {
		return errorResult(&RollbackError{SessionID: session.ID, Failures: failures})
	}
	return textResult("Rolled back %d change(s); session %s discarded.", attempted, session.ID)
}

// Session exposes a stored session for the host's audit surface.
func (d *Dispatcher) Session(id string) *Session {
	return d.store.Get(id)
}
