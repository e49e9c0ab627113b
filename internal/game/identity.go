package game

import "math/rand"

var botAvatars = []string{
	"🦊", "🐼", "🦁", "🐮", "🐨", "🐯", "🦄", "🐲", "🐙", "🐢", "🦉", "🦖",
	"🦙", "🦥", "🦔", "🐧", "🐸", "🐵", "🐹", "🐰", "🐺", "🐻", "🐷", "🐱",
}

var botColors = []string{
	"from-orange-400 to-rose-500",
	"from-blue-400 to-emerald-500",
	"from-purple-500 to-pink-500",
	"from-teal-400 to-blue-500",
	"from-emerald-400 to-cyan-500",
	"from-red-500 to-orange-500",
	"from-slate-700 to-slate-900",
	"from-fuchsia-400 to-purple-600",
}

func randomAvatar() string {
	return botAvatars[rand.Intn(len(botAvatars))]
}

func randomColor() string {
	return botColors[rand.Intn(len(botColors))]
}

func randomCode(n int) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
