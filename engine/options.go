package engine

import "log"

// Configures a model created by New or Load
type ModelOption interface {
	modelOpt()
}

// Maximum number of entries kept in the trace log.
//
// Default value is 500.
type TraceLimitOption struct {
	Limit int
}

func (TraceLimitOption) modelOpt() {}

// The cyclic order of the Token Ring. Must contain every process exactly once.
//
// Default value is ascending by id.
type RingOption struct {
	Order []int
}

func (RingOption) modelOpt() {}

// The process that holds the token when a Token Ring model is created.
//
// Default value is the first process of the ring.
type InitialHolderOption struct {
	ID int
}

func (InitialHolderOption) modelOpt() {}

// A sink that receives every trace entry written by the model.
//
// Default value is no sink.
type TraceSinkOption struct {
	Sink TraceSink
}

func (TraceSinkOption) modelOpt() {}

// A logger that prints every trace entry written by the model.
//
// Default value is no logger.
type LoggerOption struct {
	Logger *log.Logger
}

func (LoggerOption) modelOpt() {}
