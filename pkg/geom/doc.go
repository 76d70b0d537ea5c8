// Package geom provides the generic container shapes shared by the public
// style model and the layout engine.
//
// The shapes ([Size], [Rect], [Point], [Line], [MinMax]) are parameterized
// over their element type. Converting a shape between two element types is
// done once per shape by the Map* helpers, which take the element conversion
// as a function:
//
//	margin := geom.MapRect(publicMargin, toEngineDimension)
//
// [Optional] stands in for values that may be absent, such as a node size
// that is not yet known when a measurement callback runs.
package geom
