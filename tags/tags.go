package tags

// Resolv tags for physics collision
const (
	ResolvSolid   = "solid"
	ResolvFalling = "falling"
	ResolvPlayer  = "Player"
	ResolvFlag    = "flag"
)
