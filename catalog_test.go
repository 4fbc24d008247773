package vinyl

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		prefix    string
		index     int
		wantCat   Category
		wantIndex int
	}{
		{"A", 1, CategoryPrimitives, 1},
		{"A", 40, CategoryPrimitives, 40},
		{"I", 7, CategoryNature, 7},
		{"K", 3, CategoryNone, 3},
		{"L", 3, CategoryNone, 3},
		{"S", 2, CategoryUpperLetters1, 2},
		{"T", 26, CategoryLowerLetters1, 26},
		{"KK", 1, CategoryUpperLetters5, 1},
		{"XX", 26, CategoryLowerLetters11, 26},
		{"U", 5, CategoryCommunityVinyls1, 5},
		{"U", 41, CategoryCommunityVinyls2, 1},
		{"U", 80, CategoryCommunityVinyls2, 40},
		{"V", 40, CategoryCommunityVinyls3, 40},
		{"V", 55, CategoryCommunityVinyls4, 5},
		{"V", 90, CategoryCommunityVinyls4, 40},
		{"A", 45, CategoryPrimitives, 5},
		{"J", 1, CategoryNone, 1},
		{"ZZ", 2, CategoryNone, 2},
	}
	for _, tt := range tests {
		cat, idx := Classify(tt.prefix, tt.index)
		if cat != tt.wantCat || idx != tt.wantIndex {
			t.Errorf("Classify(%q, %d) = %v, %d; want %v, %d",
				tt.prefix, tt.index, cat, idx, tt.wantCat, tt.wantIndex)
		}
	}
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		id   Identity
		want int
	}{
		{Identity{CategoryPrimitives, 1}, 100},
		{Identity{CategoryFlames, 3}, 602},
		{Identity{CategoryCommunityVinyls4, 40}, 3539},
		{Identity{CategoryNone, 1}, 0},
	}
	for _, tt := range tests {
		if got := tt.id.Flatten(); got != tt.want {
			t.Errorf("%v.Flatten() = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestDeflattenInvertsFlatten(t *testing.T) {
	for _, c := range allCategories {
		for i := 1; i <= SheetSize; i++ {
			id := Identity{Category: c, Index: i}
			if got := Deflatten(id.Flatten()); got != id {
				t.Fatalf("Deflatten(%d) = %v, want %v", id.Flatten(), got, id)
			}
		}
	}
}

func TestDeflattenNearestBase(t *testing.T) {
	tests := []struct {
		typ  int
		want Identity
	}{
		// Just below a base: index 0 is bumped to 1.
		{99, Identity{CategoryPrimitives, 1}},
		// Far below a base: negative index relative to the nearest one.
		{160, Identity{CategoryGradientShapes, -39}},
		// Equidistant: the lower base wins.
		{150, Identity{CategoryPrimitives, 51}},
		{-5, Identity{CategoryNone, -4}},
		{9000, Identity{CategoryCommunityVinyls4, 5501}},
	}
	for _, tt := range tests {
		if got := Deflatten(tt.typ); got != tt.want {
			t.Errorf("Deflatten(%d) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestCategoryNames(t *testing.T) {
	if got := CategoryUpperLetters5.DirName(); got != "Upper_Letters_5" {
		t.Errorf("DirName = %q", got)
	}
	if got := CategoryRacingIcons.String(); got != "Racing Icons" {
		t.Errorf("String = %q", got)
	}
	if got := Category(4242).DirName(); got != "Category_4242" {
		t.Errorf("unknown DirName = %q", got)
	}
	cats := Categories()
	if len(cats) != len(allCategories)-1 || cats[0] != CategoryPrimitives {
		t.Errorf("Categories() = %v", cats)
	}
	cats[0] = CategoryNone
	if Categories()[0] != CategoryPrimitives {
		t.Error("Categories returned shared storage")
	}
}

func TestParseAssetName(t *testing.T) {
	tests := []struct {
		name string
		want Identity
	}{
		{"A_1.modelbin", Identity{CategoryPrimitives, 1}},
		{"V_55.modelbin", Identity{CategoryCommunityVinyls4, 5}},
		{"game/vinyls/KK_12.modelbin", Identity{CategoryUpperLetters5, 12}},
		{`C:\game\F_3.modelbin`, Identity{CategoryFlames, 3}},
		{"H_9", Identity{CategoryTribal, 9}},
		{"B_4_lod0.modelbin", Identity{CategoryGradientShapes, 4}},
	}
	for _, tt := range tests {
		got, err := ParseAssetName(tt.name)
		if err != nil {
			t.Errorf("ParseAssetName(%q): %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAssetName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseAssetNameInvalid(t *testing.T) {
	for _, name := range []string{
		"nonumber.modelbin", "A_x.modelbin", "A_.modelbin", "",
		"A_0.modelbin",  // below 1
		"A_95.modelbin", // Primitives 55
		"V_45.modelbin", // wraps to Community Vinyls 4 #-5
	} {
		if _, err := ParseAssetName(name); !errors.Is(err, ErrInvalidFilename) {
			t.Errorf("ParseAssetName(%q) err = %v, want ErrInvalidFilename", name, err)
		}
	}
}

func TestParseAssetNameRoundTrips(t *testing.T) {
	for _, prefix := range []string{"A", "I", "KK", "XX", "U", "V", "Z"} {
		for n := 1; n <= 100; n++ {
			name := fmt.Sprintf("%s_%d.modelbin", prefix, n)
			id, err := ParseAssetName(name)
			if err != nil {
				continue
			}
			if got := Deflatten(id.Flatten()); got != id {
				t.Errorf("%s: %v deflattens to %v", name, id, got)
			}
		}
	}
}

func TestParseAssetNameIndexBounds(t *testing.T) {
	if _, err := ParseAssetName(fmt.Sprintf("A_%d", MaxIndex)); err != nil {
		t.Errorf("A_%d: %v", MaxIndex, err)
	}
	if _, err := ParseAssetName(fmt.Sprintf("U_%d", SheetSize+MaxIndex)); err != nil {
		t.Errorf("U_%d: %v", SheetSize+MaxIndex, err)
	}
	if _, err := ParseAssetName("V_50"); !errors.Is(err, ErrInvalidFilename) {
		t.Errorf("V_50 err = %v", err)
	}
}
