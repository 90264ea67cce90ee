package resilience

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kbukum/guardkit/clock"
	"github.com/kbukum/guardkit/logger"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed allows requests to pass through.
	StateClosed State = iota
	// StateOpen blocks all requests.
	StateOpen
	// StateHalfOpen lets trial requests probe for recovery.
	StateHalfOpen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures a circuit breaker.
type CircuitBreakerConfig struct {
	// Name identifies this circuit breaker for errors, metrics, and logging.
	Name string `yaml:"name" mapstructure:"name"`
	// FailureThreshold is the number of failures inside TimeWindow
	// that opens the circuit.
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold" validate:"omitempty,min=1"`
	// TimeWindow is the trailing window failures are counted in.
	TimeWindow time.Duration `yaml:"time_window" mapstructure:"time_window"`
	// CooldownPeriod is how long the circuit stays open before the next
	// call is allowed to probe in half-open state.
	CooldownPeriod time.Duration `yaml:"cooldown_period" mapstructure:"cooldown_period"`
	// SuccessThreshold is the number of consecutive half-open successes
	// required to close the circuit.
	SuccessThreshold int `yaml:"success_threshold" mapstructure:"success_threshold" validate:"omitempty,min=1"`
	// OnStateChange is called on every state transition.
	OnStateChange func(name string, from, to State) `yaml:"-" mapstructure:"-"`
	// Clock is the time source. Default: the system clock.
	Clock clock.Clock `yaml:"-" mapstructure:"-"`
	// Logger receives state transition events (open: error, others: info).
	Logger *logger.Logger `yaml:"-" mapstructure:"-"`
	// Registerer optionally registers transition/rejection counters.
	Registerer prometheus.Registerer `yaml:"-" mapstructure:"-"`
}

// DefaultCircuitBreakerConfig returns sensible defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		TimeWindow:       60 * time.Second,
		CooldownPeriod:   30 * time.Second,
		SuccessThreshold: 2,
	}
}

// CircuitBreakerStats is the observability snapshot of a breaker.
type CircuitBreakerStats struct {
	Name             string        `json:"name"`
	State            string        `json:"state"`
	Failures         int           `json:"failures"`
	FailureThreshold int           `json:"failure_threshold"`
	TimeWindow       time.Duration `json:"time_window"`
}

// CircuitBreaker gates calls to a failing resource. Create one breaker
// per protected resource and reuse it across calls — the sliding failure
// window and state are the whole point of the pattern.
//
// States:
//   - closed: calls execute; failures inside the trailing window count
//     toward the threshold. Successes do not reset the window; only
//     age-out does.
//   - open: calls fail immediately without invoking the operation. After
//     the cooldown the next call transitions to half-open before executing.
//   - half-open: calls execute; SuccessThreshold consecutive successes
//     close the circuit, any failure reopens it.
//
// Safe for concurrent use by multiple callers.
type CircuitBreaker struct {
	config CircuitBreakerConfig
	log    *logger.Logger

	mu                   sync.Mutex
	state                State
	failureTimes         []time.Time
	consecutiveSuccesses int
	openedAt             time.Time

	transitions *prometheus.CounterVec
	rejections  prometheus.Counter
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.TimeWindow <= 0 {
		config.TimeWindow = 60 * time.Second
	}
	if config.CooldownPeriod <= 0 {
		config.CooldownPeriod = 30 * time.Second
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 2
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}

	cb := &CircuitBreaker{
		config: config,
		log:    config.Logger.WithComponent("circuit_breaker"),
		state:  StateClosed,
	}

	if config.Registerer != nil {
		cb.transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "circuit_breaker_transitions_total",
			Help:        "Circuit breaker state transitions",
			ConstLabels: prometheus.Labels{"breaker": config.Name},
		}, []string{"from", "to"})
		cb.rejections = prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "circuit_breaker_rejections_total",
			Help:        "Calls rejected while the circuit was open",
			ConstLabels: prometheus.Labels{"breaker": config.Name},
		})
		config.Registerer.MustRegister(cb.transitions, cb.rejections)
	}

	return cb
}

// Execute runs fn through the circuit breaker. When the circuit is open
// it returns a CIRCUIT_OPEN error carrying the breaker name and the
// remaining cooldown, without invoking fn.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.beforeCall(); err != nil {
		return err
	}
	err := fn()
	cb.afterCall(err)
	return err
}

// ExecuteResult runs a function returning a value through the breaker.
func ExecuteResult[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	var result T
	err := cb.Execute(func() error {
		var fnErr error
		result, fnErr = fn()
		return fnErr
	})
	return result, err
}

// State returns the current state. It never transitions the breaker:
// an open circuit moves to half-open only when the next call arrives.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Stats returns an observability snapshot.
func (cb *CircuitBreaker) Stats() CircuitBreakerStats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.pruneLocked()
	return CircuitBreakerStats{
		Name:             cb.config.Name,
		State:            cb.state.String(),
		Failures:         len(cb.failureTimes),
		FailureThreshold: cb.config.FailureThreshold,
		TimeWindow:       cb.config.TimeWindow,
	}
}

// Reset forces the breaker closed and clears all counters.
// Administrative override; applies unconditionally.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.toStateLocked(StateClosed)
	cb.failureTimes = nil
	cb.consecutiveSuccesses = 0
}

// beforeCall admits or rejects the call, handling the open→half-open
// transition when the cooldown has elapsed.
func (cb *CircuitBreaker) beforeCall() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		elapsed := cb.config.Clock.Since(cb.openedAt)
		if elapsed < cb.config.CooldownPeriod {
			if cb.rejections != nil {
				cb.rejections.Inc()
			}
			return circuitOpenError(cb.config.Name, cb.config.CooldownPeriod-elapsed)
		}
		cb.toStateLocked(StateHalfOpen)
	}
	return nil
}

// afterCall records the outcome of an admitted call.
func (cb *CircuitBreaker) afterCall(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.onFailureLocked()
	} else {
		cb.onSuccessLocked()
	}
}

func (cb *CircuitBreaker) onSuccessLocked() {
	if cb.state != StateHalfOpen {
		return
	}
	cb.consecutiveSuccesses++
	if cb.consecutiveSuccesses >= cb.config.SuccessThreshold {
		cb.toStateLocked(StateClosed)
		cb.failureTimes = nil
		cb.consecutiveSuccesses = 0
	}
}

func (cb *CircuitBreaker) onFailureLocked() {
	now := cb.config.Clock.Now()

	switch cb.state {
	case StateClosed:
		cb.failureTimes = append(cb.failureTimes, now)
		cb.pruneLocked()
		if len(cb.failureTimes) >= cb.config.FailureThreshold {
			cb.openedAt = now
			cb.toStateLocked(StateOpen)
		}
	case StateHalfOpen:
		cb.openedAt = now
		cb.toStateLocked(StateOpen)
	}
}

// pruneLocked drops failures that aged out of the trailing window.
func (cb *CircuitBreaker) pruneLocked() {
	cutoff := cb.config.Clock.Now().Add(-cb.config.TimeWindow)
	kept := cb.failureTimes[:0]
	for _, t := range cb.failureTimes {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	cb.failureTimes = kept
}

func (cb *CircuitBreaker) toStateLocked(to State) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to

	if to == StateHalfOpen {
		cb.consecutiveSuccesses = 0
	}

	fields := logger.Fields(
		logger.FieldBreaker, cb.config.Name,
		logger.FieldState, to.String(),
		"from", from.String(),
	)
	if to == StateOpen {
		cb.log.Error("circuit opened", fields)
	} else {
		cb.log.Info("circuit state changed", fields)
	}

	if cb.transitions != nil {
		cb.transitions.WithLabelValues(from.String(), to.String()).Inc()
	}
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, from, to)
	}
}
