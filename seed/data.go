package seed

type provinceSeed struct {
	id, name, code, capital string
	areaSqkm                string
	population              int
}

// the 26 provinces created by the 2015 découpage
var provinces = []provinceSeed{
	{"prov-kinshasa", "Kinshasa", "KN", "Kinshasa", "9965", 17071000},
	{"prov-kongo-central", "Kongo Central", "KC", "Matadi", "53920", 6000000},
	{"prov-kwango", "Kwango", "KG", "Kenge", "89974", 2000000},
	{"prov-kwilu", "Kwilu", "KL", "Bandundu", "78219", 5200000},
	{"prov-mai-ndombe", "Mai-Ndombe", "MN", "Inongo", "127465", 1800000},
	{"prov-kasai", "Kasaï", "KS", "Tshikapa", "95631", 3200000},
	{"prov-kasai-central", "Kasaï-Central", "KE", "Kananga", "59111", 2976000},
	{"prov-kasai-oriental", "Kasaï-Oriental", "KO", "Mbuji-Mayi", "9545", 3000000},
	{"prov-lomami", "Lomami", "LO", "Kabinda", "56426", 2048000},
	{"prov-sankuru", "Sankuru", "SA", "Lusambo", "104331", 1900000},
	{"prov-maniema", "Maniema", "MA", "Kindu", "132250", 2300000},
	{"prov-sud-kivu", "Sud-Kivu", "SK", "Bukavu", "65070", 5800000},
	{"prov-nord-kivu", "Nord-Kivu", "NK", "Goma", "59483", 8000000},
	{"prov-ituri", "Ituri", "IT", "Bunia", "65658", 5500000},
	{"prov-haut-uele", "Haut-Uele", "HU", "Isiro", "89683", 1900000},
	{"prov-tshopo", "Tshopo", "TO", "Kisangani", "199567", 2600000},
	{"prov-bas-uele", "Bas-Uele", "BU", "Buta", "148331", 1100000},
	{"prov-nord-ubangi", "Nord-Ubangi", "NU", "Gbadolite", "56644", 1500000},
	{"prov-mongala", "Mongala", "MO", "Lisala", "58141", 1800000},
	{"prov-sud-ubangi", "Sud-Ubangi", "SU", "Gemena", "51648", 2700000},
	{"prov-equateur", "Équateur", "EQ", "Mbandaka", "103902", 1600000},
	{"prov-tshuapa", "Tshuapa", "TU", "Boende", "132940", 1600000},
	{"prov-tanganyika", "Tanganyika", "TA", "Kalemie", "134940", 3000000},
	{"prov-haut-lomami", "Haut-Lomami", "HL", "Kamina", "108204", 2900000},
	{"prov-lualaba", "Lualaba", "LU", "Kolwezi", "121308", 2600000},
	{"prov-haut-katanga", "Haut-Katanga", "HK", "Lubumbashi", "132425", 4600000},
}

// households per province, used as the mapping target
const personsPerHousehold = 5

type addressSeed struct {
	id                                      string
	provinceID                              string
	zone, street, doorNumber, quartier, com string
	city                                    string
	lat, long                               string
	status                                  string
	source                                  string
	confidence                              string
	services                                string
}

var addresses = []addressSeed{
	{"seed-addr-001", "prov-kinshasa", "Zone 1", "Boulevard du 30 Juin", "12", "Golf", "Gombe", "Kinshasa", "-4.3040", "15.3070", "verified", "manual_survey", "0.98", `["police","hospital","fire"]`},
	{"seed-addr-002", "prov-kinshasa", "Zone 2", "Avenue de la Justice", "45", "Haut Commandement", "Gombe", "Kinshasa", "-4.3125", "15.2952", "verified", "manual_survey", "0.95", `["police","hospital"]`},
	{"seed-addr-003", "prov-kinshasa", "Zone 4", "Avenue Kasa-Vubu", "210", "Matonge", "Kalamu", "Kinshasa", "-4.3335", "15.3120", "pending", "crowdsourced", "0.72", `["hospital","school"]`},
	{"seed-addr-004", "prov-kinshasa", "Zone 7", "Avenue Kimwenza", "8", "Righini", "Lemba", "Kinshasa", "-4.4012", "15.3186", "unverified", "ai_detected", "0.64", `["school"]`},
	{"seed-addr-005", "prov-haut-katanga", "Zone 1", "Avenue Lumumba", "101", "Centre-ville", "Lubumbashi", "Lubumbashi", "-11.6647", "27.4794", "verified", "manual_survey", "0.93", `["police","hospital","market"]`},
	{"seed-addr-006", "prov-haut-katanga", "Zone 3", "Avenue Kilela Balanda", "17", "Golf Météo", "Lubumbashi", "Lubumbashi", "-11.6800", "27.4900", "pending", "imported", "0.81", `["school","market"]`},
	{"seed-addr-007", "prov-nord-kivu", "Zone 1", "Boulevard Kanyamuhanga", "33", "Les Volcans", "Goma", "Goma", "-1.6792", "29.2228", "verified", "manual_survey", "0.96", `["police","hospital"]`},
	{"seed-addr-008", "prov-nord-kivu", "Zone 2", "Avenue du Lac", "5", "Himbi", "Goma", "Goma", "-1.6870", "29.2150", "unverified", "ai_detected", "0.58", `["market"]`},
	{"seed-addr-009", "prov-sud-kivu", "Zone 1", "Avenue Patrice Lumumba", "76", "Nyalukemba", "Ibanda", "Bukavu", "-2.5083", "28.8608", "verified", "manual_survey", "0.91", `["hospital","school"]`},
	{"seed-addr-010", "prov-sud-kivu", "Zone 3", "Avenue Maniema", "22", "Kadutu", "Kadutu", "Bukavu", "-2.5150", "28.8520", "disputed", "crowdsourced", "0.47", `["market"]`},
	{"seed-addr-011", "prov-tshopo", "Zone 1", "Boulevard Mobutu", "14", "Plateau Boyoma", "Makiso", "Kisangani", "0.5153", "25.1911", "verified", "imported", "0.88", `["police","hospital"]`},
	{"seed-addr-012", "prov-tshopo", "Zone 2", "Avenue de l'Église", "3", "Mangobo", "Mangobo", "Kisangani", "0.5300", "25.2000", "pending", "ai_detected", "0.69", `["school"]`},
}

const emergencyContacts = `{"police":"112","ambulance":"114","fire":"118"}`
