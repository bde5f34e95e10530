package egg

// Default returns the built-in rule list. Order matters: earlier rules
// shadow later ones.
func Default() *Matcher {
	m, err := NewMatcher(defaultRules)
	if err != nil {
		// Compile-time data; failure is a programming error.
		panic(err)
	}
	return m
}

var defaultRules = []Rule{
	{
		Kind:     Substring,
		Trigger:  "help",
		Response: "You have asked for help six times in a row. The help command cannot save you now.",
		Guard:    func(ctx Context) bool { return ctx.ConsecutiveHelps() > 5 },
	},
	{
		Kind:     Exact,
		Trigger:  "sudo make me a sandwich",
		Response: "Okay.",
		OneTime:  true,
	},
	{
		Kind:     Substring,
		Trigger:  "make me a sandwich",
		Response: "What? Make it yourself.",
	},
	{
		Kind:     Exact,
		Trigger:  "xyzzy",
		Response: "Nothing happens. (You expected a twisty little passage?)",
		OneTime:  true,
		Sound:    "secret",
	},
	{
		Kind:     Pattern,
		Trigger:  `open the pod bay doors`,
		Response: "I'm sorry, Dave. I'm afraid I can't do that.",
		Sound:    "hal",
	},
	{
		Kind:     Substring,
		Trigger:  "hack the planet",
		Response: "HACK THE PLANET! HACK THE PLANET!",
		Effect:   "glitch",
	},
	{
		Kind:     Substring,
		Trigger:  "follow the white rabbit",
		Response: "Knock, knock.",
		Effect:   "matrix",
		OneTime:  true,
	},
	{
		Kind:     Pattern,
		Trigger:  `^(what is )?the answer( to (life|everything))?\??$`,
		Response: "42. Obviously.",
	},
	{
		Kind:     Exact,
		Trigger:  "rm -rf /",
		Response: "Nice try. This filesystem is made of pure imagination.",
		Sound:    "error",
	},
	{
		Kind:     Substring,
		Trigger:  "i love you",
		Response: "This terminal is flattered but committed to its uptime.",
		OneTime:  true,
	},
	{
		Kind:     Substring,
		Trigger:  "konami",
		Response: "Up, up, down, down, left, right, left, right, B, A. +30 lives. (Lives not redeemable.)",
		OneTime:  true,
		Sound:    "secret",
	},
	{
		Kind:     Pattern,
		Trigger:  `who (are|made) you`,
		Response: "A few hundred lines of Go wearing a trench coat.",
	},
}
