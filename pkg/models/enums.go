package models

// ShipStatus is the navigation status of a ship.
type ShipStatus string

const (
	ShipStatusInTransit ShipStatus = "IN_TRANSIT"
	ShipStatusInOrbit   ShipStatus = "IN_ORBIT"
	ShipStatusDocked    ShipStatus = "DOCKED"
)

// FlightMode controls speed and fuel use when navigating.
type FlightMode string

const (
	FlightModeDrift   FlightMode = "DRIFT"
	FlightModeStealth FlightMode = "STEALTH"
	FlightModeCruise  FlightMode = "CRUISE"
	FlightModeBurn    FlightMode = "BURN"
)

// Valid reports whether m is one of the known flight modes.
func (m FlightMode) Valid() bool {
	switch m {
	case FlightModeDrift, FlightModeStealth, FlightModeCruise, FlightModeBurn:
		return true
	}
	return false
}

// WaypointType is the kind of celestial body a waypoint is.
type WaypointType string

const (
	WaypointTypePlanet                WaypointType = "PLANET"
	WaypointTypeGasGiant              WaypointType = "GAS_GIANT"
	WaypointTypeMoon                  WaypointType = "MOON"
	WaypointTypeOrbitalStation        WaypointType = "ORBITAL_STATION"
	WaypointTypeJumpGate              WaypointType = "JUMP_GATE"
	WaypointTypeAsteroidField         WaypointType = "ASTEROID_FIELD"
	WaypointTypeAsteroid              WaypointType = "ASTEROID"
	WaypointTypeEngineeredAsteroid    WaypointType = "ENGINEERED_ASTEROID"
	WaypointTypeAsteroidBase          WaypointType = "ASTEROID_BASE"
	WaypointTypeNebula                WaypointType = "NEBULA"
	WaypointTypeDebrisField           WaypointType = "DEBRIS_FIELD"
	WaypointTypeGravityWell           WaypointType = "GRAVITY_WELL"
	WaypointTypeArtificialGravityWell WaypointType = "ARTIFICIAL_GRAVITY_WELL"
	WaypointTypeFuelStation           WaypointType = "FUEL_STATION"
)

// WaypointTrait is the tag identifying a waypoint trait.
type WaypointTrait string

const (
	TraitUncharted            WaypointTrait = "UNCHARTED"
	TraitUnderConstruction    WaypointTrait = "UNDER_CONSTRUCTION"
	TraitMarketplace          WaypointTrait = "MARKETPLACE"
	TraitShipyard             WaypointTrait = "SHIPYARD"
	TraitOutpost              WaypointTrait = "OUTPOST"
	TraitScatteredSettlements WaypointTrait = "SCATTERED_SETTLEMENTS"
	TraitSprawlingCities      WaypointTrait = "SPRAWLING_CITIES"
	TraitMegaStructures       WaypointTrait = "MEGA_STRUCTURES"
	TraitPirateBase           WaypointTrait = "PIRATE_BASE"
	TraitOvercrowded          WaypointTrait = "OVERCROWDED"
	TraitHighTech             WaypointTrait = "HIGH_TECH"
	TraitCorrupt              WaypointTrait = "CORRUPT"
	TraitBureaucratic         WaypointTrait = "BUREAUCRATIC"
	TraitTradingHub           WaypointTrait = "TRADING_HUB"
	TraitIndustrial           WaypointTrait = "INDUSTRIAL"
	TraitBlackMarket          WaypointTrait = "BLACK_MARKET"
	TraitResearchFacility     WaypointTrait = "RESEARCH_FACILITY"
	TraitMilitaryBase         WaypointTrait = "MILITARY_BASE"
	TraitCommonMetals         WaypointTrait = "COMMON_METAL_DEPOSITS"
	TraitPreciousMetals       WaypointTrait = "PRECIOUS_METAL_DEPOSITS"
	TraitRareMetals           WaypointTrait = "RARE_METAL_DEPOSITS"
	TraitMineralDeposits      WaypointTrait = "MINERAL_DEPOSITS"
	TraitIceCrystals          WaypointTrait = "ICE_CRYSTALS"
	TraitExplosiveGases       WaypointTrait = "EXPLOSIVE_GASES"
	TraitStripped             WaypointTrait = "STRIPPED"
)

// ContractType is the kind of work a contract asks for.
type ContractType string

const (
	ContractProcurement ContractType = "PROCUREMENT"
	ContractTransport   ContractType = "TRANSPORT"
	ContractShuttle     ContractType = "SHUTTLE"
)
