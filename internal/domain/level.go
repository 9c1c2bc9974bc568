package domain

// Level is the coarse progression tier derived from XP.
type Level string

const (
	LevelPrincipiante Level = "Principiante"
	LevelIntermedio   Level = "Intermedio"
	LevelAvanzado     Level = "Avanzado"
	LevelExperto      Level = "Experto"
)

// LevelForXP classifies an XP total, most advanced tier first. This is a
// fresh classification on every call, not a one-way transition: levels only
// ever rise in practice because XP is monotonic.
func LevelForXP(xp int) Level {
	switch {
	case xp >= 2000:
		return LevelExperto
	case xp >= 1500:
		return LevelAvanzado
	case xp >= 800:
		return LevelIntermedio
	default:
		return LevelPrincipiante
	}
}

// NextLevelXP returns the XP needed to reach the tier above the given one.
// Experto has no tier above it; its value is the soft cap shown to clients.
func NextLevelXP(level Level) int {
	switch level {
	case LevelPrincipiante:
		return 800
	case LevelIntermedio:
		return 1500
	case LevelAvanzado:
		return 2000
	case LevelExperto:
		return 3000
	default:
		return 3000
	}
}
