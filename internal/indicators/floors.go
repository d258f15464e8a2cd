package indicators

// Candle floors. An indicator shrinks its periods down to
// max(resolver shallow floor, floor) candles; below that it is absent.
// Periods at or above floorLongAverage never degrade.
const (
	floorShallow     = 5
	floorLongAverage = 100

	floorRSI         = 5
	floorStochRSI    = 10
	floorMACD        = 8
	floorADX         = 8
	floorAwesome     = 10
	floorAccelerator = 12
	floorTSI         = 12
	floorTRIX        = 12
	floorKST         = 20
	floorCoppock     = 15
	floorSTC         = 15
	floorConnors     = 20
	floorSMI         = 8
	floorWaveTrend   = 15
	floorDivergence  = 20
	floorIchimoku    = 10
	floorAlligator   = 8
	floorMassIndex   = 15
	floorUlcer       = 8
	floorKlinger     = 20
	floorMcClellan   = 10
	floorFibonacci   = 10
	floorProfile     = 10
	floorNVI         = 10
)
