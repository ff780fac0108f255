package memegen

import "errors"

var (
	ErrTopicRequired    = errors.New("topic is required")
	ErrTemplateNotFound = errors.New("template not found")
	ErrNoTemplates      = errors.New("no templates available")
	ErrNotInitialized   = errors.New("system components not initialized")
	ErrImageTooLarge    = errors.New("image dimensions too large")
)
