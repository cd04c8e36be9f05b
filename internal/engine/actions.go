// Package engine implements spec.md's C12: it resolves a parsed
// config.Config into a live action registry, a set of runnable
// checks, and a report, then drives them on the scheduling model of
// spec.md §5. Grounded on original_source/src/lib.rs's
// init_actions/init_checks/from_config sequence and check/mod.rs's
// factory/from_check_config dispatch, adapted to Go generics instead
// of Rust's per-measurement-kind trait objects.
package engine

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/flo-at/minmon/internal/action"
	"github.com/flo-at/minmon/internal/config"
	"github.com/flo-at/minmon/internal/logging"
)

// buildActions resolves cfg.Actions into a name-keyed registry,
// mirroring lib.rs's init_actions. Disabled actions are still
// registered, wrapped in action.Disabled, so alarms/report events that
// reference them by name resolve rather than error (see
// internal/action's DESIGN.md entry).
func buildActions(cfgs []config.Action, root zerolog.Logger) (*action.Registry, error) {
	logger := logging.Component(root, "engine")
	logger.Info().Int("count", len(cfgs)).Msg("initializing actions")

	client := resty.New()
	actionLogger := logging.Component(root, "action")

	actions := make(map[string]*action.Base, len(cfgs))
	for _, ac := range cfgs {
		if _, exists := actions[ac.Name]; exists {
			return nil, fmt.Errorf("duplicate action name %q", ac.Name)
		}

		if ac.Disable {
			logger.Info().Str("action", ac.Name).Msg("action is disabled")
			actions[ac.Name] = action.NewBase(ac.Name, ac.Placeholders, toDuration(ac.Timeout), &action.Disabled{Logger: actionLogger, Name: ac.Name})
			continue
		}

		impl, err := buildActionImpl(ac, client, actionLogger)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", ac.Name, err)
		}
		actions[ac.Name] = action.NewBase(ac.Name, ac.Placeholders, toDuration(ac.Timeout), impl)
		logger.Info().Str("action", ac.Name).Str("type", string(ac.Kind)).Msg("action initialized")
	}
	return action.NewRegistry(actions), nil
}

func buildActionImpl(ac config.Action, client *resty.Client, logger zerolog.Logger) (action.Action, error) {
	switch ac.Kind {
	case config.ActionLogKind:
		return &action.Log{Logger: logger, Level: ac.Log.Level.ZerologLevel(), Template: ac.Log.Template}, nil
	case config.ActionWebhookKind:
		return action.NewWebhook(client, ac.Webhook.URL, ac.Webhook.Method, ac.Webhook.Headers, ac.Webhook.Body), nil
	case config.ActionEmailKind:
		security := smtpSecurity(ac.Email.SMTPSecurity)
		return action.NewEmail(
			ac.Email.From, ac.Email.To, ac.Email.ReplyTo, ac.Email.Subject, ac.Email.Body,
			ac.Email.SMTPServer, smtpPort(ac.Email.SMTPPort, security), security,
			ac.Email.Username, ac.Email.Password,
		)
	case config.ActionProcessKind:
		return &action.Process{
			Path:        ac.Process.Path,
			Arguments:   ac.Process.Arguments,
			Environment: ac.Process.Environment,
			WorkingDir:  ac.Process.WorkingDir,
			UID:         ac.Process.UID,
			GID:         ac.Process.GID,
		}, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", ac.Kind)
	}
}

// smtpPort applies the conventional port for the chosen security mode
// when the configuration leaves it unset, mirroring email.rs's
// Option<u16>-then-transport-default behavior (the transport crate's
// `relay`/`starttls_relay`/plain builders each assume their own
// standard port absent an explicit one).
func smtpPort(p *uint16, security action.SmtpSecurity) int {
	if p != nil {
		return int(*p)
	}
	switch security {
	case action.SmtpSTARTTLS:
		return 587
	case action.SmtpPlain:
		return 25
	default:
		return 465
	}
}

func smtpSecurity(s string) action.SmtpSecurity {
	switch s {
	case "STARTTLS":
		return action.SmtpSTARTTLS
	case "Plain":
		return action.SmtpPlain
	default:
		return action.SmtpTLS
	}
}

func toDuration(seconds uint32) time.Duration { return time.Duration(seconds) * time.Second }
