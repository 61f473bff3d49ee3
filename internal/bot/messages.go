package bot

import "math/rand/v2"

// Each template takes the member's display name.
var welcomeMessages = []string{
	"Everyone wave, %s just joined the server!",
	"A wild %s appeared!",
	"%s just landed. Make some room!",
	"Glad you made it, %s!",
	"%s hopped into the server. Welcome!",
	"Say hi to %s, our newest member!",
	"%s is here. The party can start now.",
	"Welcome aboard, %s!",
}

var farewellMessages = []string{
	"%s just left the server. Safe travels!",
	"Goodbye %s, we'll miss you.",
	"%s has logged off for the last time.",
	"So long, %s. Thanks for stopping by.",
	"%s slipped out the back door.",
	"Farewell %s, come back soon!",
}

func randomWelcome() string {
	return welcomeMessages[rand.IntN(len(welcomeMessages))]
}

func randomFarewell() string {
	return farewellMessages[rand.IntN(len(farewellMessages))]
}
