// Package vinyl is an editor core for a racing game's vinyl decals: layered
// shapes composed on a canvas and exchanged with an external painter tool.
//
// It parses the game's .modelbin shape assets, classifies them into decal
// categories, places and transforms shapes, hit-tests them by color keying
// and draws layouts onto [Ebitengine] images.
//
// # Getting geometry
//
// Shape geometry comes out of the game's asset files once, with [Extract],
// and is stored as one record per asset in a [DirStore]:
//
//	store := vinyl.DirStore{Root: "vinyls"}
//	report, err := vinyl.Extract(os.DirFS(gameDir), ".", vinyl.ExtractOptions{Saver: store})
//
// At edit time a [Cache] loads each record at most once:
//
//	cache := vinyl.NewCache(store)
//	data, err := cache.Get(vinyl.Identity{Category: vinyl.CategoryFlames, Index: 3})
//
// # Layouts
//
// A [Layout] is an ordered list of [Shape] values, index 0 on top. Shape
// placement is set with setters that keep the mapped vertices, bounds
// and composited colors current:
//
//	l := vinyl.NewLayout()
//	s := l.PlaceShape(data, 100, 50, vinyl.Color{R: 200, A: 255})
//	s.SetAngle(30)
//
// Placement composes scale, then skew, then rotation, then translation.
// Angles are in degrees, clockwise on the y-down canvas.
//
// # Picking
//
// A [HitTester] draws every visible shape in a unique flat color into an
// offscreen buffer clipped to the query and reads the colors back:
//
//	ht := vinyl.NewHitTester(l)
//	top := ht.Point(x, y)
//	marquee := ht.Region(vinyl.Rect{X: 0, Y: 0, Width: 200, Height: 100})
//
// # Painter files
//
// [ExportPainter] and [ImportPainter] convert layouts to and from the
// painter tool's JSON. Records are listed bottom to top and use flattened
// type ids (see [Identity.Flatten] and [Deflatten]).
//
// [Ebitengine]: https://ebitengine.org
package vinyl
