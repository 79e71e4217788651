// Package catalog - Service lookup table data
//
// Rows are keyed by bracket label (or cylinder count for F/G) and carry
// the raw cost recipe before markup, freight and frequency arithmetic.
// Values reproduce the parity-baseline spreadsheet row by row.
package catalog

// bracketRow is a bracket-keyed table row
type bracketRow struct {
	Labor   float64 // on-site hours
	Mob     float64 // mobilization hours
	Parts   float64 // fixed parts cost before markup
	OilGal  float64 // oil gallons consumed
	CoolGal float64 // coolant gallons consumed
}

// cylinderRow is a cylinder-keyed table row (services F and G)
type cylinderRow struct {
	Cylinders int
	Labor     float64
	Mob       float64
	Parts     float64
}

// Service A - comprehensive inspection (quarterly)
var serviceA = map[string]bracketRow{
	"2-14":      {Labor: 1.0, Mob: 0.25, Parts: 25.00},
	"15-30":     {Labor: 1.0, Mob: 0.25, Parts: 30.00},
	"35-150":    {Labor: 1.5, Mob: 0.50, Parts: 40.00},
	"151-250":   {Labor: 2.0, Mob: 0.50, Parts: 50.00},
	"251-400":   {Labor: 2.0, Mob: 0.75, Parts: 60.00},
	"401-500":   {Labor: 2.5, Mob: 0.75, Parts: 75.00},
	"501-670":   {Labor: 3.0, Mob: 1.00, Parts: 90.00},
	"671-1050":  {Labor: 3.5, Mob: 1.00, Parts: 110.00},
	"1051-1500": {Labor: 4.0, Mob: 1.50, Parts: 135.00},
	"1501+":     {Labor: 5.0, Mob: 1.50, Parts: 160.00},
}

// Service B - oil and filter service. Parts is the filter cost.
var serviceB = map[string]bracketRow{
	"2-14":      {Labor: 1.0, Mob: 0.25, Parts: 42.50, OilGal: 1.5},
	"15-30":     {Labor: 1.5, Mob: 0.25, Parts: 68.40, OilGal: 3.0},
	"35-150":    {Labor: 2.0, Mob: 0.50, Parts: 229.20, OilGal: 7.0},
	"151-250":   {Labor: 2.5, Mob: 0.50, Parts: 285.60, OilGal: 12.0},
	"251-400":   {Labor: 3.0, Mob: 0.75, Parts: 342.00, OilGal: 18.0},
	"401-500":   {Labor: 3.5, Mob: 0.75, Parts: 398.40, OilGal: 24.0},
	"501-670":   {Labor: 4.0, Mob: 1.00, Parts: 456.00, OilGal: 32.0},
	"671-1050":  {Labor: 5.0, Mob: 1.00, Parts: 512.40, OilGal: 45.0},
	"1051-1500": {Labor: 6.0, Mob: 1.50, Parts: 627.60, OilGal: 60.0},
	"1501+":     {Labor: 8.0, Mob: 1.50, Parts: 744.00, OilGal: 80.0},
}

// Service C - coolant system service. Parts is the hose/belt cost.
var serviceC = map[string]bracketRow{
	"2-14":      {Labor: 1.0, Mob: 0.25, Parts: 35.00, CoolGal: 2.0},
	"15-30":     {Labor: 1.5, Mob: 0.25, Parts: 45.00, CoolGal: 4.0},
	"35-150":    {Labor: 2.0, Mob: 0.50, Parts: 85.00, CoolGal: 8.0},
	"151-250":   {Labor: 2.5, Mob: 0.50, Parts: 110.00, CoolGal: 12.0},
	"251-400":   {Labor: 3.0, Mob: 0.75, Parts: 140.00, CoolGal: 18.0},
	"401-500":   {Labor: 3.5, Mob: 0.75, Parts: 165.00, CoolGal: 22.0},
	"501-670":   {Labor: 4.0, Mob: 1.00, Parts: 195.00, CoolGal: 28.0},
	"671-1050":  {Labor: 5.0, Mob: 1.00, Parts: 240.00, CoolGal: 38.0},
	"1051-1500": {Labor: 6.0, Mob: 1.50, Parts: 290.00, CoolGal: 50.0},
	"1501+":     {Labor: 7.0, Mob: 1.50, Parts: 350.00, CoolGal: 65.0},
}

// Service E - load bank testing. Rental and delivery are separate
// add-ons so the override policy can replace them individually.
type loadBankRow struct {
	Labor             float64
	Mob               float64
	LoadBankRental    float64
	TransformerRental float64
	DeliveryCost      float64
}

var serviceE = map[string]loadBankRow{
	"2-14":      {Labor: 2.0, Mob: 0.50, LoadBankRental: 180.00, TransformerRental: 0, DeliveryCost: 95.00},
	"15-30":     {Labor: 2.5, Mob: 0.50, LoadBankRental: 225.00, TransformerRental: 0, DeliveryCost: 95.00},
	"35-150":    {Labor: 3.0, Mob: 1.00, LoadBankRental: 350.00, TransformerRental: 150.00, DeliveryCost: 125.00},
	"151-250":   {Labor: 4.0, Mob: 1.00, LoadBankRental: 450.00, TransformerRental: 200.00, DeliveryCost: 150.00},
	"251-400":   {Labor: 4.5, Mob: 1.25, LoadBankRental: 600.00, TransformerRental: 260.00, DeliveryCost: 175.00},
	"401-500":   {Labor: 5.0, Mob: 1.25, LoadBankRental: 750.00, TransformerRental: 320.00, DeliveryCost: 200.00},
	"501-670":   {Labor: 6.0, Mob: 1.50, LoadBankRental: 950.00, TransformerRental: 400.00, DeliveryCost: 240.00},
	"671-1050":  {Labor: 7.0, Mob: 1.50, LoadBankRental: 1250.00, TransformerRental: 520.00, DeliveryCost: 290.00},
	"1051-1500": {Labor: 8.0, Mob: 2.00, LoadBankRental: 1600.00, TransformerRental: 680.00, DeliveryCost: 350.00},
	"1501+":     {Labor: 10.0, Mob: 2.00, LoadBankRental: 2100.00, TransformerRental: 850.00, DeliveryCost: 425.00},
}

// Service F - injector service, keyed by cylinder count. Pop-style and
// unit-style injectors carry separate tables; unit injectors sit in the
// valve train and cost considerably more labor to reach.
var serviceFPop = []cylinderRow{
	{Cylinders: 2, Labor: 2.0, Mob: 0.50, Parts: 120.00},
	{Cylinders: 3, Labor: 2.5, Mob: 0.50, Parts: 175.00},
	{Cylinders: 4, Labor: 3.0, Mob: 0.50, Parts: 230.00},
	{Cylinders: 6, Labor: 4.0, Mob: 1.00, Parts: 340.00},
	{Cylinders: 8, Labor: 5.0, Mob: 1.00, Parts: 450.00},
	{Cylinders: 10, Labor: 6.0, Mob: 1.00, Parts: 560.00},
	{Cylinders: 12, Labor: 7.0, Mob: 1.50, Parts: 675.00},
	{Cylinders: 16, Labor: 9.0, Mob: 1.50, Parts: 890.00},
	{Cylinders: 20, Labor: 11.0, Mob: 2.00, Parts: 1100.00},
}

var serviceFUnit = []cylinderRow{
	{Cylinders: 2, Labor: 2.5, Mob: 0.50, Parts: 160.00},
	{Cylinders: 3, Labor: 3.0, Mob: 0.50, Parts: 230.00},
	{Cylinders: 4, Labor: 3.5, Mob: 0.50, Parts: 300.00},
	{Cylinders: 6, Labor: 5.0, Mob: 1.00, Parts: 445.00},
	{Cylinders: 8, Labor: 6.5, Mob: 1.00, Parts: 590.00},
	{Cylinders: 10, Labor: 8.0, Mob: 1.00, Parts: 740.00},
	{Cylinders: 12, Labor: 9.5, Mob: 1.50, Parts: 885.00},
	{Cylinders: 16, Labor: 12.0, Mob: 1.50, Parts: 1170.00},
	{Cylinders: 20, Labor: 15.0, Mob: 2.00, Parts: 1450.00},
}

// Service G - valve adjustment, keyed by cylinder count
var serviceG = []cylinderRow{
	{Cylinders: 2, Labor: 1.5, Mob: 0.50, Parts: 45.00},
	{Cylinders: 3, Labor: 2.0, Mob: 0.50, Parts: 60.00},
	{Cylinders: 4, Labor: 2.5, Mob: 0.50, Parts: 80.00},
	{Cylinders: 6, Labor: 3.5, Mob: 1.00, Parts: 115.00},
	{Cylinders: 8, Labor: 4.5, Mob: 1.00, Parts: 150.00},
	{Cylinders: 10, Labor: 5.5, Mob: 1.00, Parts: 185.00},
	{Cylinders: 12, Labor: 6.5, Mob: 1.50, Parts: 225.00},
	{Cylinders: 16, Labor: 8.0, Mob: 1.50, Parts: 290.00},
	{Cylinders: 20, Labor: 10.0, Mob: 2.00, Parts: 360.00},
}

// Service H - major coolant system replacement (5-year)
var serviceH = map[string]bracketRow{
	"2-14":      {Labor: 2.0, Mob: 0.50, Parts: 120.00, CoolGal: 2.0},
	"15-30":     {Labor: 2.5, Mob: 0.50, Parts: 155.00, CoolGal: 4.0},
	"35-150":    {Labor: 3.5, Mob: 1.00, Parts: 265.00, CoolGal: 8.0},
	"151-250":   {Labor: 4.0, Mob: 1.00, Parts: 330.00, CoolGal: 12.0},
	"251-400":   {Labor: 5.0, Mob: 1.25, Parts: 410.00, CoolGal: 18.0},
	"401-500":   {Labor: 5.5, Mob: 1.25, Parts: 470.00, CoolGal: 22.0},
	"501-670":   {Labor: 6.5, Mob: 1.50, Parts: 555.00, CoolGal: 28.0},
	"671-1050":  {Labor: 8.0, Mob: 1.50, Parts: 675.00, CoolGal: 38.0},
	"1051-1500": {Labor: 9.5, Mob: 2.00, Parts: 820.00, CoolGal: 50.0},
	"1501+":     {Labor: 11.0, Mob: 2.00, Parts: 990.00, CoolGal: 65.0},
}

// Service I - battery service. Parts covers test/clean supplies;
// Battery is the replacement cost added by the include-battery option.
type batteryRow struct {
	Labor   float64
	Mob     float64
	Parts   float64
	Battery float64
}

var serviceI = map[string]batteryRow{
	"2-14":      {Labor: 0.5, Mob: 0.25, Parts: 18.00, Battery: 165.00},
	"15-30":     {Labor: 0.5, Mob: 0.25, Parts: 18.00, Battery: 185.00},
	"35-150":    {Labor: 1.0, Mob: 0.50, Parts: 24.00, Battery: 210.00},
	"151-250":   {Labor: 1.0, Mob: 0.50, Parts: 24.00, Battery: 245.00},
	"251-400":   {Labor: 1.0, Mob: 0.50, Parts: 30.00, Battery: 290.00},
	"401-500":   {Labor: 1.5, Mob: 0.50, Parts: 30.00, Battery: 330.00},
	"501-670":   {Labor: 1.5, Mob: 0.75, Parts: 36.00, Battery: 380.00},
	"671-1050":  {Labor: 1.5, Mob: 0.75, Parts: 36.00, Battery: 450.00},
	"1051-1500": {Labor: 2.0, Mob: 1.00, Parts: 42.00, Battery: 540.00},
	"1501+":     {Labor: 2.0, Mob: 1.00, Parts: 48.00, Battery: 650.00},
}

// Service J - thermal imaging, keyed directly on raw kW, not brackets
type thermalRow struct {
	MaxKW float64 // inclusive upper bound; 0 means unbounded
	Labor float64
	Mob   float64
	Fee   float64
}

var serviceJ = []thermalRow{
	{MaxKW: 150, Labor: 1.0, Mob: 0.50, Fee: 285.00},
	{MaxKW: 500, Labor: 1.5, Mob: 0.50, Fee: 385.00},
	{MaxKW: 0, Labor: 2.0, Mob: 1.00, Fee: 485.00},
}
