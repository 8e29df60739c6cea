package service

// ConversationServiceWrapper decorates a ConversationService with extra
// behavior such as input validation.
type ConversationServiceWrapper interface {
	Wrap(ConversationService) ConversationService
}
