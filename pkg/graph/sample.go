package graph

// NewSampleCity builds the demo map: a small city with sixteen named
// locations connected by two-way roads whose weights equal the Euclidean
// distance between endpoints. It is used when no saved map exists yet.
func NewSampleCity() *Graph {
	g := New()

	add := func(name string, x, y float64) int {
		id, _ := g.AddNode(name, x, y)
		return id
	}

	// Central area
	downtown := add("Downtown", 600, 360)
	centralPark := add("Central Park", 700, 300)
	mainStation := add("Main Station", 550, 420)
	cityHall := add("City Hall", 650, 380)

	// North area
	northGate := add("North Gate", 620, 180)
	university := add("University", 720, 200)
	museum := add("Museum", 550, 220)

	// South area
	southMall := add("South Mall", 600, 520)
	airport := add("Airport", 750, 550)
	harbor := add("Harbor", 480, 550)

	// East area
	techPark := add("Tech Park", 850, 350)
	stadium := add("Stadium", 880, 450)
	beach := add("Beach", 920, 300)

	// West area
	westGardens := add("West Gardens", 400, 350)
	hospital := add("Hospital", 380, 280)
	industrial := add("Industrial Zone", 350, 450)

	connect := func(a, b int) {
		d, _ := g.Distance(a, b)
		_ = g.AddBidirectional(a, b, d)
	}

	// Central connections
	connect(downtown, centralPark)
	connect(downtown, mainStation)
	connect(downtown, cityHall)
	connect(centralPark, cityHall)
	connect(mainStation, cityHall)

	// North connections
	connect(centralPark, northGate)
	connect(centralPark, university)
	connect(northGate, museum)
	connect(northGate, university)
	connect(museum, hospital)

	// South connections
	connect(mainStation, southMall)
	connect(southMall, airport)
	connect(southMall, harbor)
	connect(airport, stadium)
	connect(harbor, industrial)

	// East connections
	connect(centralPark, techPark)
	connect(techPark, beach)
	connect(techPark, stadium)
	connect(university, beach)

	// West connections
	connect(downtown, westGardens)
	connect(westGardens, hospital)
	connect(westGardens, industrial)
	connect(mainStation, industrial)

	// Cross connections for more routing options
	connect(museum, downtown)
	connect(cityHall, southMall)
	connect(harbor, mainStation)

	return g
}
