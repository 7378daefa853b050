package dispatch

import "bitbucket.org/sotavant/meetup-skill/internal/speech"

const (
	phraseWelcome    = "Welcome to KLab! " + speech.StrongPause + " You can ask me about the next meetup."
	phraseHelp       = "You can ask me when the next KLab event is, or ask for the details of the next event."
	phraseHelpHint   = "Try asking: when is the next event?"
	phraseFarewell   = "Goodbye, see you at the next meetup!"
	phraseNotHeard   = "Sorry, I didn't understand that."
	phraseNoEvents   = "There are no events scheduled right now. Please check back later."
	phraseKnowMore   = "Do you want to know more?"
	phraseDetails    = "Here are the details. " + speech.StrongPause + " "
	phraseNoDetails  = "No further details are available."
	phraseCantFetch  = "I can't retrieve the event information right now. Please try again later."
	phraseUnexpected = "I'm sorry, there was an unexpected error. Please try again later."
)
