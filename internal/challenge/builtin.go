package challenge

// Builtin returns the catalog shipped with the terminal. Order matters:
// it is the progression players see in `ctf list`.
func Builtin() *Catalog {
	cat, err := NewCatalog(builtinChallenges)
	if err != nil {
		// The built-in table is compile-time data; a validation failure
		// here is a programming error.
		panic(err)
	}
	return cat
}

var builtinChallenges = []Challenge{
	{
		ID:          "welcome",
		Title:       "Welcome Protocol",
		Difficulty:  Easy,
		Points:      10,
		Description: "Every terminal greets its visitors. Find the greeting.",
		Content:     "The banner of this very terminal hides the flag in plain sight.\nSubmit the two words it shouts at you, exclamation mark included.",
		Hint:        "Scroll up. The very first thing you saw.",
		Flag:        "Hello Hacker!",
		Reward:      "You can read. That is further than most bots get.",
	},
	{
		ID:          "caesar",
		Title:       "Rolling Letters",
		Difficulty:  Easy,
		Points:      20,
		Description: "A classic shift cipher guards this one.",
		Content:     "Decrypt: KHOOR VKHOO\nThe flag is the plaintext, upper case, single space.",
		Hint:        "Julius used three. So do I.",
		Flag:        "HELLO SHELL",
		Reward:      "Rot13 would have been too obvious.",
	},
	{
		ID:          "hexdump",
		Title:       "Dead Beef",
		Difficulty:  Easy,
		Points:      20,
		Description: "Read the bytes, not the words.",
		Content:     "48 41 43 4B 33 52\nThe flag is the decoded ASCII string.",
		Hint:        "Two hex digits per character.",
		Flag:        "HACK3R",
		Reward:      "0x1337 approved.",
		Unlocks: Unlocks{
			Commands: []string{"decrypt"},
			Message:  "New command unlocked: decrypt",
		},
	},
	{
		ID:          "hidden_file",
		Title:       "Dotfiles",
		Difficulty:  Medium,
		Points:      30,
		Description: "Some files prefer not to be seen.",
		Content:     "Somewhere in this filesystem hides a file whose name starts with a dot.\nIts contents are the flag.",
		Hint:        "ls has a flag for that. So to speak.",
		Flag:        "shadow_runner_42",
		Reward:      "Nothing is ever really hidden.",
	},
	{
		ID:          "port_knock",
		Title:       "Open Sesame",
		Difficulty:  Medium,
		Points:      40,
		Description: "The scanner sees more than it prints.",
		Content:     "Run a scan against the mainframe. One port answers with a service\nname that is not a service at all. That name is the flag.",
		Hint:        "Port 31337 has opinions.",
		Flag:        "elite_backdoor",
		Reward:      "The mainframe pretends it never happened.",
		Unlocks: Unlocks{
			Commands: []string{"backdoor"},
			Message:  "New command unlocked: backdoor",
		},
	},
	{
		ID:          "base_camp",
		Title:       "Base Camp",
		Difficulty:  Hard,
		Points:      50,
		Description: "Layers upon layers.",
		Content:     "aGFja3Rlcm1fc3VtbWl0\nPeel the encoding. The flag is what remains.",
		Hint:        "64 reasons to try the obvious first.",
		Flag:        "hackterm_summit",
		Reward:      "Welcome to base camp. The summit is cosmetic.",
	},
	{
		ID:          "ghost_user",
		Title:       "Ghost in the Passwd",
		Difficulty:  Hard,
		Points:      60,
		Description: "An account exists that no listing admits to.",
		Content:     "The access system knows a user whose role is spelled like a film\nfrom 1999. The flag is that username.",
		Hint:        "There is no spoon.",
		Flag:        "morpheus",
		Reward:      "He has been expecting you.",
	},
	{
		ID:          "final_cipher",
		Title:       "The Final Cipher",
		Difficulty:  Expert,
		Points:      100,
		Description: "Everything you have learned, in one string.",
		Content:     "VGhlIG1hdHJpeCBpcyBldmVyeXdoZXJl\nDecode it, then submit the phrase with spaces, capitalized exactly.",
		Hint:        "Same trick as base camp, different sentence.",
		Flag:        "The matrix is everywhere",
		Reward:      "There is nothing left to teach. Log off and touch grass.",
		Unlocks: Unlocks{
			Commands: []string{"godmode"},
			Message:  "New command unlocked: godmode",
		},
	},
}
