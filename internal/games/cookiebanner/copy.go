package cookiebanner

import (
	"fmt"
	"strings"
)

// ToastKind picks the toast color.
type ToastKind int

const (
	ToastPressure ToastKind = iota
	ToastUrgent
	ToastWarning
	ToastOffer
)

var toastMessages = []string{
	// urgency
	"Hurry up - your content slop is getting cold!",
	"URGENT: Other users are completing levels faster than you!",
	"Quick! This exclusive free content expires in... uh... never actually",
	"WARNING: You're taking too long! Click something already!",
	"BREAKING: Local person still reading cookie policies like it's 2018",

	// fomo
	"You're missing out on targeted ads just for YOU!",
	"83% of users just accept everything. Be different! ...or don't.",
	"Personalized experience loading... Just kidding, it's all ads",
	"Your data broker is getting lonely without your info",
	"Join 7 billion others who clicked 'Accept All' without reading!",

	// fake urgency
	"Limited time offer: Accept cookies NOW! (Offer valid forever)",
	"TODAY ONLY: Free tracking across 847 advertising partners!",
	"Premium surveillance package - normally $0, now just $0!",
	"Your privacy is important* (*terms and conditions apply)",
	"Running out of time! (We literally have all day)",

	// guilt
	"You're hurting our feelings by reading the fine print",
	"Websites aren't free! (Neither is your data apparently)",
	"Think of the poor data analysts who need your info to eat",
	"Cookies just want to help! (Help themselves to your data)",
	"Don't you want a *personalized* experience? (We do)",

	// absurd
	"AI suggests you accept everything. Trust the machines!",
	"Fortune teller says your future involves targeted ads",
	"Psychology tip: Just clicking 'Accept' reduces decision fatigue!",
	"Statistics show 99% of users don't read this anyway",
	"Feeling lucky? Hit 'Accept All' and see what happens!",

	// meta
	"This is exactly what real websites do, by the way",
	"Pro tip: The cookie banner is designed to be annoying",
	"Plot twist: This notification is also tracking you",
	"Fun fact: You've been watched since you opened this page",
	"Welcome to the circus of modern web privacy!",
}

type nagCopy struct {
	title, subtitle, benefit string
}

var nagMessages = []nagCopy{
	{"WAIT! Don't Go Empty-Handed!", "Get exclusive cookie banner insider secrets!", "Join 47,000+ privacy warriors fighting the good fight!"},
	{"Hold Up! Special Offer Just For You!", "Free Premium Dark Pattern Detection Course", "Learn to spot manipulation tactics like a pro!"},
	{"Before You Leave...", "Get the Ultimate Cookie Rejection Cheat Sheet", "Never fall for 'Accept All' again!"},
	{"Last Chance! Don't Miss Out!", "Exclusive Newsletter: 'Privacy Ninja Weekly'", "Tips, tricks, and GDPR memes delivered to your inbox!"},
	{"We See You Trying to Escape!", "How about some premium surveillance tips?", "Learn what Big Tech doesn't want you to know!"},
}

var shamingLines = []string{
	"No thanks, I prefer irrelevant ads",
	"I don't care about supporting free content",
	"I enjoy a worse experience, actually",
	"Nah, I'd rather the website starve",
}

var expiredLines = []string{
	"Time's up! (Not really. Nothing happens. Take your time.)",
	"TOO SLOW! Just kidding, the timer was fake all along.",
	"The offer expired. A new identical offer has appeared.",
}

var confusingTemplates = []string{
	"Don't opt out of %s",
	"Do not refuse to allow %s",
	"Avoid not permitting %s",
}

// confusingLabel rewrites a checkbox label as a double negative. The
// checkbox still means "consent given" when ticked.
func confusingLabel(name string, i int) string {
	return fmt.Sprintf(confusingTemplates[i%len(confusingTemplates)], strings.ToLower(name))
}

func shamingLine(levelID int) string {
	return shamingLines[levelID%len(shamingLines)]
}
