package chat

import "errors"

// ErrNoAnswerService is returned when a question is asked without a
// configured answer service.
var ErrNoAnswerService = errors.New("chat: answer service not available")
