// Package layout computes non-overlapping canvas positions for the
// drawable parts of a diagram: the object, its force arrows, their labels
// and a small axes indicator.
//
// # Coordinate Space
//
// Layout space is screen-oriented: (0, 0) is the top-left corner of the
// canvas and y grows downward. Angles keep the mathematical convention
// (0° = right, 90° = up), so a direction θ maps to the offset
// (cos θ, -sin θ); see [diagram.Direction].
//
// # Elements and Collisions
//
// Every drawable is an [Element] with a bounding box and a priority tier.
// [DetectCollisions] compares all pairs after padding each box by half of
// [MinSpacing], so elements that nearly touch are reported too. Elements
// attached to each other (a force arrow on its object, a label on its
// arrow) are never reported.
//
// # Placement
//
// Force origins follow the physical meaning of the force type
// ([ForceOrigin]): weight starts at the center, normal forces at the
// contact face, friction at the leading edge of the contact face, and
// applied forces at the edge they push on. Labels are placed greedily by
// [FindLabelPosition]. [ResolveCollisions] then nudges lower-priority
// elements apart for at most [MaxIterations] rounds and reports whatever
// overlaps remain; it never fails.
//
// [PhysicsLayout] runs the whole sequence for one object and its forces.
// [PlotLayout] maps coordinate-plane and number-line data onto a canvas.
package layout
