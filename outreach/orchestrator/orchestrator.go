// Package orchestrator sequences the outreach pipeline: resolve,
// research, validate, draft, deliver. Stages are strictly linear; no
// stage starts before its predecessor completes and no stage is
// skipped, however sparse the upstream results. Any stage failure
// terminates the run immediately with the failure kind unchanged.
package orchestrator

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	contractx "github.com/kiboventures/outreach/outreach/contract"
	"github.com/kiboventures/outreach/outreach/worker"
)

type Stage string

const (
	StageResolving   Stage = "resolving"
	StageResearching Stage = "researching"
	StageValidating  Stage = "validating"
	StageDrafting    Stage = "drafting"
	StageDelivering  Stage = "delivering"
	StageDone        Stage = "done"
)

type Orchestrator struct {
	directory  contractx.Directory
	researcher contractx.Researcher
	validator  contractx.Validator
	drafter    contractx.Drafter
	strategist contractx.Strategist
	deliverer  contractx.Deliverer
	pool       *worker.Pool
}

func New(
	directory contractx.Directory,
	researcher contractx.Researcher,
	validator contractx.Validator,
	drafter contractx.Drafter,
	strategist contractx.Strategist,
	deliverer contractx.Deliverer,
	pool *worker.Pool,
) (*Orchestrator, error) {
	if directory == nil {
		return nil, errors.New("orchestrator: directory is required")
	}
	if researcher == nil {
		return nil, errors.New("orchestrator: researcher is required")
	}
	if validator == nil {
		return nil, errors.New("orchestrator: validator is required")
	}
	if drafter == nil {
		return nil, errors.New("orchestrator: drafter is required")
	}
	if strategist == nil {
		return nil, errors.New("orchestrator: strategist is required")
	}
	if deliverer == nil {
		return nil, errors.New("orchestrator: deliverer is required")
	}
	if pool == nil {
		pool = worker.NewPool(1)
	}

	return &Orchestrator{
		directory:  directory,
		researcher: researcher,
		validator:  validator,
		drafter:    drafter,
		strategist: strategist,
		deliverer:  deliverer,
		pool:       pool,
	}, nil
}

// RunOutreach drives one full pipeline run for the request and returns
// the delivery confirmation.
func (o *Orchestrator) RunOutreach(ctx context.Context, req contractx.OutreachRequest) (contractx.OutreachResult, error) {
	return o.run(ctx, req, func(ctx context.Context, logger zerolog.Logger, st *runState) (contractx.Draft, error) {
		logger.Info().Str("stage", string(StageDrafting)).Msg("stage started")
		var draft contractx.Draft
		err := o.pool.Do(ctx, func(ctx context.Context) error {
			var derr error
			draft, derr = o.drafter.Draft(ctx, st.contact, st.validated, st.member)
			return derr
		})
		if err != nil {
			return contractx.Draft{}, o.fail(logger, StageDrafting, err)
		}
		return draft, nil
	})
}

// RunStrategy drives the same resolve/research/validate stages and then
// composes and delivers the connection-strategy note instead of the
// outreach email.
func (o *Orchestrator) RunStrategy(ctx context.Context, req contractx.OutreachRequest) (contractx.OutreachResult, error) {
	return o.run(ctx, req, func(ctx context.Context, logger zerolog.Logger, st *runState) (contractx.Draft, error) {
		logger.Info().Str("stage", string(StageDrafting)).Msg("stage started")
		var draft contractx.Draft
		err := o.pool.Do(ctx, func(ctx context.Context) error {
			var derr error
			draft, derr = o.strategist.Compose(ctx, st.contact, st.validated, st.member)
			return derr
		})
		if err != nil {
			return contractx.Draft{}, o.fail(logger, StageDrafting, err)
		}
		return draft, nil
	})
}

type runState struct {
	contact   contractx.Contact
	member    contractx.TeamMember
	validated contractx.ValidatedResearch
}

type composeFn func(ctx context.Context, logger zerolog.Logger, st *runState) (contractx.Draft, error)

func (o *Orchestrator) run(ctx context.Context, req contractx.OutreachRequest, compose composeFn) (contractx.OutreachResult, error) {
	logger := log.With().
		Str("run_id", uuid.NewString()).
		Str("contact", req.FirstName+" "+req.LastName).
		Str("company", req.Company).
		Logger()

	// Resolving: in-memory lookups, no worker dispatch needed.
	logger.Info().Str("stage", string(StageResolving)).Msg("stage started")
	st := &runState{}

	contact, err := o.directory.ResolveContact(req.FirstName, req.LastName)
	if err != nil {
		return contractx.OutreachResult{}, o.fail(logger, StageResolving, err)
	}
	st.contact = contact

	member, err := o.directory.ResolveTeamMember(req.TeamMember)
	if err != nil {
		return contractx.OutreachResult{}, o.fail(logger, StageResolving, err)
	}
	st.member = member

	logger.Info().Str("stage", string(StageResearching)).Msg("stage started")
	var bundle contractx.ResearchBundle
	err = o.pool.Do(ctx, func(ctx context.Context) error {
		var rerr error
		bundle, rerr = o.researcher.Research(ctx, st.contact)
		return rerr
	})
	if err != nil {
		return contractx.OutreachResult{}, o.fail(logger, StageResearching, err)
	}

	logger.Info().Str("stage", string(StageValidating)).Msg("stage started")
	err = o.pool.Do(ctx, func(ctx context.Context) error {
		var verr error
		st.validated, verr = o.validator.Validate(ctx, bundle, st.contact.Notes)
		return verr
	})
	if err != nil {
		return contractx.OutreachResult{}, o.fail(logger, StageValidating, err)
	}

	draft, err := compose(ctx, logger, st)
	if err != nil {
		return contractx.OutreachResult{}, err
	}

	logger.Info().Str("stage", string(StageDelivering)).Msg("stage started")
	var receipt contractx.DeliveryReceipt
	err = o.pool.Do(ctx, func(ctx context.Context) error {
		var serr error
		receipt, serr = o.deliverer.Deliver(ctx, st.member.Email, draft)
		return serr
	})
	if err != nil {
		return contractx.OutreachResult{}, o.fail(logger, StageDelivering, err)
	}

	logger.Info().Str("stage", string(StageDone)).Str("message_id", receipt.MessageID).Msg("run complete")
	return contractx.OutreachResult{
		Status:       receipt.Status,
		SentTo:       st.member.Email,
		ContactName:  st.contact.FullName(),
		EmailPreview: draft.Body,
	}, nil
}

// fail records the failing stage and underlying detail for operators
// and returns the error unchanged so the caller sees the original kind.
func (o *Orchestrator) fail(logger zerolog.Logger, stage Stage, err error) error {
	logger.Error().Err(err).Str("stage", string(stage)).Msg("run failed")
	return err
}
