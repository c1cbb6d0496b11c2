package brief

// Static keyword tables used by the rotation fallback, the target selector
// and the assembler. All keywords are lower case and matched as substrings
// of a lower-cased exercise name or label.

// Body-part rotation used when the user has no rotation configured.
const (
	groupChest     = "Chest"
	groupBack      = "Back"
	groupShoulders = "Shoulders"
	groupArms      = "Arms"
	groupLegs      = "Legs"
)

var bodyPartOrder = []string{groupChest, groupBack, groupShoulders, groupArms, groupLegs}

// exerciseGroups classifies an exercise name into a body part. The list is
// ordered: the first keyword contained in the name wins, so the more specific
// phrases ("leg curl", "upright row") sit ahead of the generic ones.
var exerciseGroups = []struct {
	keyword string
	group   string
}{
	{"leg curl", groupLegs},
	{"leg extension", groupLegs},
	{"leg press", groupLegs},
	{"romanian", groupLegs},
	{"rdl", groupLegs},
	{"hip thrust", groupLegs},
	{"squat", groupLegs},
	{"upright row", groupShoulders},
	{"face pull", groupShoulders},
	{"lateral raise", groupShoulders},
	{"tricep", groupArms},
	{"bicep", groupArms},
	{"skull", groupArms},
	{"pushdown", groupArms},
	{"preacher", groupArms},
	{"hammer curl", groupArms},
	{"curl", groupArms},
	{"overhead", groupShoulders},
	{"shoulder", groupShoulders},
	{"military", groupShoulders},
	{"ohp", groupShoulders},
	{"arnold", groupShoulders},
	{"delt", groupShoulders},
	{"shrug", groupShoulders},
	{"pull-up", groupBack},
	{"pullup", groupBack},
	{"chin-up", groupBack},
	{"chinup", groupBack},
	{"chin up", groupBack},
	{"pull up", groupBack},
	{"pulldown", groupBack},
	{"lat pull", groupBack},
	{"row", groupBack},
	{"deadlift", groupBack},
	{"back", groupBack},
	{"bench", groupChest},
	{"chest", groupChest},
	{"pec", groupChest},
	{"fly", groupChest},
	{"flye", groupChest},
	{"dip", groupChest},
	{"push-up", groupChest},
	{"pushup", groupChest},
	{"incline", groupChest},
	{"lunge", groupLegs},
	{"calf", groupLegs},
	{"hamstring", groupLegs},
	{"quad", groupLegs},
	{"glute", groupLegs},
	{"step-up", groupLegs},
	{"leg", groupLegs},
	{"arms", groupArms},
}

// targetGroup maps a rotation label to the exercises that train it.
type targetGroup struct {
	name      string
	labels    []string
	exercises []string
}

var (
	pushExercises = []string{"bench", "chest press", "shoulder press", "overhead press", "military", "ohp",
		"incline", "fly", "dip", "tricep", "pushdown", "lateral raise"}
	pullExercises = []string{"row", "pull-up", "pullup", "pull up", "chin-up", "chinup", "pulldown", "deadlift", "face pull",
		"shrug", "bicep", "hammer curl", "preacher", "barbell curl", "dumbbell curl"}
	legExercises = []string{"squat", "leg press", "lunge", "romanian", "rdl", "calf", "leg curl",
		"leg extension", "hip thrust", "hamstring", "glute"}
)

// targetGroups is checked in order; the first group with a label keyword
// contained in the suggested label is used.
var targetGroups = []targetGroup{
	{name: "push", labels: []string{"push"}, exercises: pushExercises},
	{name: "pull", labels: []string{"pull"}, exercises: pullExercises},
	{name: "legs", labels: []string{"leg", "lower"}, exercises: legExercises},
	{name: "upper", labels: []string{"upper"}, exercises: concat(pushExercises, pullExercises)},
	{name: "full_body", labels: []string{"full"}, exercises: []string{"squat", "bench", "deadlift", "press", "row"}},
	{name: "chest", labels: []string{"chest"}, exercises: []string{"bench", "chest", "fly", "dip", "incline", "pec"}},
	{name: "back", labels: []string{"back"}, exercises: []string{"row", "pull-up", "pullup", "pull up", "chin-up", "chinup", "pulldown",
		"deadlift", "lat pull"}},
	{name: "shoulders", labels: []string{"shoulder", "delt"}, exercises: []string{"shoulder press", "overhead press",
		"lateral raise", "military", "ohp", "face pull", "arnold", "delt"}},
	{name: "arms", labels: []string{"arm", "bicep", "tricep"}, exercises: []string{"curl", "tricep", "bicep",
		"skull", "pushdown"}},
}

// compoundExercises is the fallback search when the label's group has no history.
var compoundExercises = []string{"bench", "squat", "deadlift", "press", "row"}

// fillerTokens never count as a shared token between two labels.
var fillerTokens = map[string]bool{
	"day":      true,
	"workout":  true,
	"session":  true,
	"training": true,
	"a":        true,
	"b":        true,
	"&":        true,
	"and":      true,
	"-":        true,
}

var prMotivations = []string{
	"New PR on %s. That's what progress looks like.",
	"%s just moved up. Record broken.",
	"You beat your best on %s. Keep stacking wins.",
}

var genericMotivations = []string{
	"Work logged. Consistency builds the results.",
	"Another session in the books.",
	"Done for today. Recover and come back stronger.",
	"Showing up is the hard part, and you did it.",
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
