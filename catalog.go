package vinyl

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Category is a decal family. Its numeric value is the base offset used to
// flatten an Identity into a single interchange type id, so the values are
// part of the file format and must not be renumbered.
type Category int

const (
	CategoryNone Category = 0 // unused asset prefixes

	CategoryPrimitives     Category = 100
	CategoryGradientShapes Category = 200
	CategoryStripes        Category = 300
	CategoryTears          Category = 400
	CategoryRacingIcons    Category = 500
	CategoryFlames         Category = 600
	CategoryPaintSplats    Category = 700
	CategoryTribal         Category = 800
	CategoryNature         Category = 900

	CategoryUpperLetters1  Category = 1000
	CategoryLowerLetters1  Category = 1100
	CategoryUpperLetters2  Category = 1200
	CategoryLowerLetters2  Category = 1300
	CategoryUpperLetters3  Category = 1400
	CategoryLowerLetters3  Category = 1500
	CategoryUpperLetters4  Category = 1600
	CategoryLowerLetters4  Category = 1700
	CategoryUpperLetters5  Category = 1800
	CategoryLowerLetters5  Category = 1900
	CategoryUpperLetters6  Category = 2000
	CategoryLowerLetters6  Category = 2100
	CategoryUpperLetters7  Category = 2200
	CategoryLowerLetters7  Category = 2300
	CategoryUpperLetters8  Category = 2400
	CategoryLowerLetters8  Category = 2500
	CategoryUpperLetters9  Category = 2600
	CategoryLowerLetters9  Category = 2700
	CategoryUpperLetters10 Category = 2800
	CategoryLowerLetters10 Category = 2900
	CategoryUpperLetters11 Category = 3000
	CategoryLowerLetters11 Category = 3100

	CategoryCommunityVinyls1 Category = 3200
	CategoryCommunityVinyls2 Category = 3300
	CategoryCommunityVinyls3 Category = 3400
	CategoryCommunityVinyls4 Category = 3500
)

// SheetSize is the number of assets the game ships per category. Asset
// indices above it wrap into a second category (see Classify).
const SheetSize = 40

// Indices up to MaxIndex deflatten back to their own category.
const MaxIndex = 50

// allCategories lists every category, None first, in ascending base order.
var allCategories = []Category{
	CategoryNone,
	CategoryPrimitives, CategoryGradientShapes, CategoryStripes, CategoryTears,
	CategoryRacingIcons, CategoryFlames, CategoryPaintSplats, CategoryTribal, CategoryNature,
	CategoryUpperLetters1, CategoryLowerLetters1, CategoryUpperLetters2, CategoryLowerLetters2,
	CategoryUpperLetters3, CategoryLowerLetters3, CategoryUpperLetters4, CategoryLowerLetters4,
	CategoryUpperLetters5, CategoryLowerLetters5, CategoryUpperLetters6, CategoryLowerLetters6,
	CategoryUpperLetters7, CategoryLowerLetters7, CategoryUpperLetters8, CategoryLowerLetters8,
	CategoryUpperLetters9, CategoryLowerLetters9, CategoryUpperLetters10, CategoryLowerLetters10,
	CategoryUpperLetters11, CategoryLowerLetters11,
	CategoryCommunityVinyls1, CategoryCommunityVinyls2, CategoryCommunityVinyls3, CategoryCommunityVinyls4,
}

// Categories returns every category except None, in base order.
func Categories() []Category {
	out := make([]Category, len(allCategories)-1)
	copy(out, allCategories[1:])
	return out
}

var categoryDirNames = map[Category]string{
	CategoryNone:             "None",
	CategoryPrimitives:       "Primitives",
	CategoryGradientShapes:   "Gradient_Shapes",
	CategoryStripes:          "Stripes",
	CategoryTears:            "Tears",
	CategoryRacingIcons:      "Racing_Icons",
	CategoryFlames:           "Flames",
	CategoryPaintSplats:      "Paint_Splats",
	CategoryTribal:           "Tribal",
	CategoryNature:           "Nature",
	CategoryUpperLetters1:    "Upper_Letters_1",
	CategoryLowerLetters1:    "Lower_Letters_1",
	CategoryUpperLetters2:    "Upper_Letters_2",
	CategoryLowerLetters2:    "Lower_Letters_2",
	CategoryUpperLetters3:    "Upper_Letters_3",
	CategoryLowerLetters3:    "Lower_Letters_3",
	CategoryUpperLetters4:    "Upper_Letters_4",
	CategoryLowerLetters4:    "Lower_Letters_4",
	CategoryUpperLetters5:    "Upper_Letters_5",
	CategoryLowerLetters5:    "Lower_Letters_5",
	CategoryUpperLetters6:    "Upper_Letters_6",
	CategoryLowerLetters6:    "Lower_Letters_6",
	CategoryUpperLetters7:    "Upper_Letters_7",
	CategoryLowerLetters7:    "Lower_Letters_7",
	CategoryUpperLetters8:    "Upper_Letters_8",
	CategoryLowerLetters8:    "Lower_Letters_8",
	CategoryUpperLetters9:    "Upper_Letters_9",
	CategoryLowerLetters9:    "Lower_Letters_9",
	CategoryUpperLetters10:   "Upper_Letters_10",
	CategoryLowerLetters10:   "Lower_Letters_10",
	CategoryUpperLetters11:   "Upper_Letters_11",
	CategoryLowerLetters11:   "Lower_Letters_11",
	CategoryCommunityVinyls1: "Community_Vinyls_1",
	CategoryCommunityVinyls2: "Community_Vinyls_2",
	CategoryCommunityVinyls3: "Community_Vinyls_3",
	CategoryCommunityVinyls4: "Community_Vinyls_4",
}

// DirName returns the storage directory name of the category, e.g.
// "Upper_Letters_5".
func (c Category) DirName() string {
	if name, ok := categoryDirNames[c]; ok {
		return name
	}
	return "Category_" + strconv.Itoa(int(c))
}

// String returns the display name, e.g. "Upper Letters 5".
func (c Category) String() string {
	return strings.ReplaceAll(c.DirName(), "_", " ")
}

// prefixCategories maps asset filename prefixes to categories. It encodes
// reverse-engineered game data; U and V are resolved in Classify because
// they depend on the index. The game skips J, Y and Z.
var prefixCategories = map[string]Category{
	"A": CategoryPrimitives,
	"B": CategoryGradientShapes,
	"C": CategoryStripes,
	"D": CategoryTears,
	"E": CategoryRacingIcons,
	"F": CategoryFlames,
	"G": CategoryPaintSplats,
	"H": CategoryTribal,
	"I": CategoryNature,
	"K": CategoryNone,
	"L": CategoryNone,

	"S": CategoryUpperLetters1,
	"T": CategoryLowerLetters1,
	"M": CategoryUpperLetters2,
	"N": CategoryLowerLetters2,
	"O": CategoryUpperLetters3,
	"P": CategoryLowerLetters3,
	"Q": CategoryUpperLetters4,
	"R": CategoryLowerLetters4,

	"KK": CategoryUpperLetters5,
	"LL": CategoryLowerLetters5,
	"MM": CategoryUpperLetters6,
	"NN": CategoryLowerLetters6,
	"OO": CategoryUpperLetters7,
	"PP": CategoryLowerLetters7,
	"QQ": CategoryUpperLetters8,
	"RR": CategoryLowerLetters8,
	"SS": CategoryUpperLetters9,
	"TT": CategoryLowerLetters9,
	"UU": CategoryUpperLetters10,
	"VV": CategoryLowerLetters10,
	"WW": CategoryUpperLetters11,
	"XX": CategoryLowerLetters11,
}

// Classify maps an asset filename prefix and its 1-based number to a
// category and the index within that category.
//
// Numbers above SheetSize belong to a second sheet: for U and V they select
// the second community category, and V numbering additionally starts ten
// higher. The wrapped index has SheetSize subtracted whatever the prefix.
func Classify(prefix string, index int) (Category, int) {
	wrap := index > SheetSize
	if wrap {
		if prefix == "V" {
			index -= 10
		}
		index -= SheetSize
	}

	switch prefix {
	case "U":
		if wrap {
			return CategoryCommunityVinyls2, index
		}
		return CategoryCommunityVinyls1, index
	case "V":
		if wrap {
			return CategoryCommunityVinyls4, index
		}
		return CategoryCommunityVinyls3, index
	}
	if c, ok := prefixCategories[prefix]; ok {
		return c, index
	}
	return CategoryNone, index
}

// Identity names one shape asset: a category and a 1-based index in it.
type Identity struct {
	Category Category
	Index    int
}

// Flatten returns the interchange type id: base offset + index - 1.
func (id Identity) Flatten() int {
	return int(id.Category) + id.Index - 1
}

func (id Identity) String() string {
	return fmt.Sprintf("%v #%d (%d)", id.Category, id.Index, id.Flatten())
}

// Deflatten converts an interchange type id back to an Identity. The
// category is the one whose base offset is nearest to typ (ties go to the
// lower base). A computed index of 0, which happens when typ sits just
// below a base, is bumped to 1; some exported groups rely on it.
func Deflatten(typ int) Identity {
	best := allCategories[0]
	bestDist := absInt(typ - int(best))
	for _, c := range allCategories[1:] {
		if d := absInt(typ - int(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	index := typ - (int(best) - 1)
	if index == 0 {
		index = 1
	}
	return Identity{Category: best, Index: index}
}

// ParseAssetName classifies an asset file name of the form
// <letters>_<number>[.ext]. Directory components are ignored. Names whose
// classified index falls outside 1..MaxIndex are rejected.
func ParseAssetName(filename string) (Identity, error) {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	prefix, number, ok := strings.Cut(base, "_")
	if !ok {
		return Identity{}, fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	// Anything after a second underscore is not part of the number.
	number, _, _ = strings.Cut(number, "_")
	index, err := strconv.Atoi(number)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %q: %v", ErrInvalidFilename, filename, err)
	}
	c, i := Classify(prefix, index)
	if i < 1 || i > MaxIndex {
		return Identity{}, fmt.Errorf("%w: %q: index %d outside 1..%d", ErrInvalidFilename, filename, i, MaxIndex)
	}
	return Identity{Category: c, Index: i}, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
