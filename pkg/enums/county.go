package enums

// County is one of the 47 counties of Kenya.
type County string

const (
	CountyMombasa        County = "Mombasa"
	CountyKwale          County = "Kwale"
	CountyKilifi         County = "Kilifi"
	CountyTanaRiver      County = "Tana River"
	CountyLamu           County = "Lamu"
	CountyTaitaTaveta    County = "Taita-Taveta"
	CountyGarissa        County = "Garissa"
	CountyWajir          County = "Wajir"
	CountyMandera        County = "Mandera"
	CountyMarsabit       County = "Marsabit"
	CountyIsiolo         County = "Isiolo"
	CountyMeru           County = "Meru"
	CountyTharakaNithi   County = "Tharaka-Nithi"
	CountyEmbu           County = "Embu"
	CountyKitui          County = "Kitui"
	CountyMachakos       County = "Machakos"
	CountyMakueni        County = "Makueni"
	CountyNyandarua      County = "Nyandarua"
	CountyNyeri          County = "Nyeri"
	CountyKirinyaga      County = "Kirinyaga"
	CountyMuranga        County = "Murang'a"
	CountyKiambu         County = "Kiambu"
	CountyTurkana        County = "Turkana"
	CountyWestPokot      County = "West Pokot"
	CountySamburu        County = "Samburu"
	CountyTransNzoia     County = "Trans Nzoia"
	CountyUasinGishu     County = "Uasin Gishu"
	CountyElgeyoMarakwet County = "Elgeyo-Marakwet"
	CountyNandi          County = "Nandi"
	CountyBaringo        County = "Baringo"
	CountyLaikipia       County = "Laikipia"
	CountyNakuru         County = "Nakuru"
	CountyNarok          County = "Narok"
	CountyKajiado        County = "Kajiado"
	CountyKericho        County = "Kericho"
	CountyBomet          County = "Bomet"
	CountyKakamega       County = "Kakamega"
	CountyVihiga         County = "Vihiga"
	CountyBungoma        County = "Bungoma"
	CountyBusia          County = "Busia"
	CountySiaya          County = "Siaya"
	CountyKisumu         County = "Kisumu"
	CountyHomaBay        County = "Homa Bay"
	CountyMigori         County = "Migori"
	CountyKisii          County = "Kisii"
	CountyNyamira        County = "Nyamira"
	CountyNairobi        County = "Nairobi"
)

// Ordered by official county code.
var validCounties = []County{
	CountyMombasa, CountyKwale, CountyKilifi, CountyTanaRiver, CountyLamu,
	CountyTaitaTaveta, CountyGarissa, CountyWajir, CountyMandera, CountyMarsabit,
	CountyIsiolo, CountyMeru, CountyTharakaNithi, CountyEmbu, CountyKitui,
	CountyMachakos, CountyMakueni, CountyNyandarua, CountyNyeri, CountyKirinyaga,
	CountyMuranga, CountyKiambu, CountyTurkana, CountyWestPokot, CountySamburu,
	CountyTransNzoia, CountyUasinGishu, CountyElgeyoMarakwet, CountyNandi, CountyBaringo,
	CountyLaikipia, CountyNakuru, CountyNarok, CountyKajiado, CountyKericho,
	CountyBomet, CountyKakamega, CountyVihiga, CountyBungoma, CountyBusia,
	CountySiaya, CountyKisumu, CountyHomaBay, CountyMigori, CountyKisii,
	CountyNyamira, CountyNairobi,
}

func (c County) String() string { return string(c) }

func (c County) IsValid() bool { return contains(validCounties, c) }

func ParseCounty(value string) (County, error) {
	return parse(validCounties, value, "county")
}

func CountyValues() []string { return stringsOf(validCounties) }
