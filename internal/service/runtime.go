package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"math_quest_backend/internal/model"
	"math_quest_backend/internal/repository"
	"math_quest_backend/internal/util"
	"math_quest_backend/pkg/logger"
	"math_quest_backend/pkg/monitoring"
	"math_quest_backend/pkg/random"
	"math_quest_backend/pkg/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BadgeSink 在事务提交之后接收新铸造的徽章，失败不影响已提交状态
type BadgeSink interface {
	BadgeMinted(ctx context.Context, badge model.Badge)
}

// Runtime 模拟账本的执行环境：执行消息逐条串行，每条消息一个事务，
// 查询只读取已提交状态
type Runtime struct {
	Store      repository.Store
	Dispatcher *Dispatcher
	Entropy    random.Source
	Sinks      []BadgeSink
	Now        func() time.Time

	mu     sync.Mutex
	height uint64
}

func NewRuntime(store repository.Store, dispatcher *Dispatcher, entropy random.Source, sinks ...BadgeSink) *Runtime {
	return &Runtime{
		Store:      store,
		Dispatcher: dispatcher,
		Entropy:    entropy,
		Sinks:      sinks,
		Now:        time.Now,
	}
}

func (r *Runtime) nextEnv() (Env, error) {
	seed, err := r.Entropy.Random()
	if err != nil {
		return Env{}, util.Errorf(util.ErrNoRandomness, "No randomness available: %v", err)
	}
	r.height++
	return Env{
		BlockHeight: r.height,
		BlockTime:   r.Now().UTC(),
		Random:      seed,
	}, nil
}

// Instantiate 合约已存在时返回 AlreadyExists
func (r *Runtime) Instantiate(ctx context.Context, sender string, msg *model.InstantiateMsg) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.Store.Transaction(ctx, func(repos *repository.Repositories) error {
		return r.Dispatcher.Instantiate(repos, MessageInfo{Sender: sender}, msg)
	})
}

// EnsureInstantiated 启动时调用，已有状态时保持原所有者
func (r *Runtime) EnsureInstantiated(ctx context.Context, owner string) error {
	err := r.Instantiate(ctx, owner, &model.InstantiateMsg{Owner: &owner})
	if errors.Is(err, util.ErrAlreadyExists) {
		return nil
	}
	return err
}

func (r *Runtime) Owner(ctx context.Context) (string, error) {
	var owner string
	err := r.Store.Read(ctx, func(repos *repository.Repositories) error {
		state, err := repos.State.Load()
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotInstantiated
			}
			return err
		}
		owner = state.Owner
		return nil
	})
	return owner, err
}

// ExecuteRaw 解析并执行一条原始执行消息
func (r *Runtime) ExecuteRaw(ctx context.Context, sender string, raw []byte) (*model.ExecuteResult, error) {
	msg, err := DecodeExecuteMsg(raw)
	if err != nil {
		monitoring.ObserveMessage("execute", "unknown", util.ErrorKind(err), 0)
		return nil, err
	}
	return r.Execute(ctx, sender, msg)
}

func (r *Runtime) Execute(ctx context.Context, sender string, msg *model.ExecuteMsg) (*model.ExecuteResult, error) {
	name := ExecuteMsgName(msg)
	txID := uuid.New().String()
	start := time.Now()

	ctx, span := tracing.Tracer().Start(ctx, "ledger.execute."+name)
	defer span.End()
	span.SetAttributes(attribute.String("ledger.tx_id", txID), attribute.String("ledger.sender", sender))

	r.mu.Lock()
	var outcome *Outcome
	env, err := r.nextEnv()
	if err == nil {
		err = r.Store.Transaction(ctx, func(repos *repository.Repositories) error {
			var txErr error
			outcome, txErr = r.Dispatcher.Execute(repos, env, MessageInfo{Sender: sender}, msg)
			return txErr
		})
	}
	r.mu.Unlock()

	duration := time.Since(start)
	if err != nil {
		kind := util.ErrorKind(err)
		monitoring.ObserveMessage("execute", name, kind, duration)
		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
		logger.Log.Warn("execute failed",
			zap.String("tx_id", txID),
			zap.String("sender", sender),
			zap.String("msg", name),
			zap.String("kind", kind),
			zap.Error(err),
		)
		return nil, err
	}

	monitoring.ObserveMessage("execute", name, "ok", duration)
	logger.Log.Info("execute committed",
		zap.String("tx_id", txID),
		zap.String("sender", sender),
		zap.String("msg", name),
		zap.Uint64("height", env.BlockHeight),
		zap.Duration("duration", duration),
	)

	if outcome != nil && outcome.Minted != nil {
		r.publish(ctx, *outcome.Minted)
	}
	return &model.ExecuteResult{TxID: txID}, nil
}

func (r *Runtime) publish(ctx context.Context, badge model.Badge) {
	monitoring.BadgesMinted.Inc()
	logger.Log.Info("badge minted",
		zap.Uint64("token_id", badge.TokenID),
		zap.String("owner", badge.Owner),
		zap.Uint64("quest_id", badge.QuestID),
		zap.String("token_uri", badge.TokenURI),
	)
	for _, sink := range r.Sinks {
		sink.BadgeMinted(ctx, badge)
	}
}

// QueryRaw 解析并执行一条原始查询消息
func (r *Runtime) QueryRaw(ctx context.Context, raw []byte) (interface{}, error) {
	msg, err := DecodeQueryMsg(raw)
	if err != nil {
		monitoring.ObserveMessage("query", "unknown", util.ErrorKind(err), 0)
		return nil, err
	}
	return r.Query(ctx, msg)
}

func (r *Runtime) Query(ctx context.Context, msg *model.QueryMsg) (interface{}, error) {
	name := QueryMsgName(msg)
	start := time.Now()

	ctx, span := tracing.Tracer().Start(ctx, "ledger.query."+name)
	defer span.End()

	var answer interface{}
	err := r.Store.Read(ctx, func(repos *repository.Repositories) error {
		var qErr error
		answer, qErr = r.Dispatcher.Query(repos, msg)
		return qErr
	})

	duration := time.Since(start)
	if err != nil {
		kind := util.ErrorKind(err)
		monitoring.ObserveMessage("query", name, kind, duration)
		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
		logger.Log.Debug("query failed", zap.String("msg", name), zap.String("kind", kind), zap.Error(err))
		return nil, err
	}
	monitoring.ObserveMessage("query", name, "ok", duration)
	return answer, nil
}
