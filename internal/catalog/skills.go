package catalog

// defaultCategories is the built-in skill taxonomy. Order of categories and of
// skills inside a category is preserved by Catalog.Categories.
var defaultCategories = []Category{
	{Name: "programming", Skills: []string{
		"python", "java", "javascript", "c++", "c#", "ruby", "php", "swift", "kotlin", "go",
		"rust", "scala", "haskell", "perl", "typescript", "r", "matlab", "bash", "powershell",
		"vhdl", "verilog", "julia", "assembly", "objective-c", "cobol", "fortran", "ada", "groovy",
		"f#", "elm", "purescript", "dart", "lua", "nim", "zig", "elixir", "crystal", "ocaml",
	}},
	{Name: "data_science", Skills: []string{
		"machine learning", "deep learning", "data mining", "statistics", "ai", "artificial intelligence",
		"data analysis", "data visualization", "big data", "predictive modeling", "natural language processing",
		"computer vision", "data wrangling", "feature engineering", "time series analysis",
		"data cleaning", "graph analysis", "text mining", "bayesian analysis", "genetic algorithms",
		"reinforcement learning", "dimensionality reduction", "ensemble learning",
	}},
	{Name: "databases", Skills: []string{
		"sql", "nosql", "postgresql", "mysql", "mongodb", "oracle", "cassandra", "redis", "elasticsearch",
		"sqlite", "mariadb", "couchdb", "dynamodb", "firestore", "neo4j", "tidb", "influxdb",
		"clickhouse", "hbase", "snowflake", "teradata", "greenplum", "presto", "trino", "cockroachdb",
		"splunk", "amazon redshift", "bigquery", "hive", "drill", "impala",
	}},
	{Name: "web_development", Skills: []string{
		"html", "css", "javascript", "react", "angular", "vue", "node.js", "django", "flask",
		"ruby on rails", "express", "laravel", "spring", "asp.net", "next.js", "nuxt.js",
		"svelte", "tailwindcss", "bootstrap", "foundation", "ember.js", "backbone.js",
		"meteor", "symfony", "codeigniter", "cakephp", "jekyll", "hugo", "gatsby",
	}},
	{Name: "devops", Skills: []string{
		"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "ci/cd", "terraform", "ansible", "git",
		"prometheus", "grafana", "puppet", "chef", "nagios", "consul", "vault", "saltstack", "helm",
		"vagrant", "splunk", "graylog", "logstash", "elk stack", "rundeck", "sonarqube",
		"jfrog artifactory", "kibana", "elastic stack", "hashicorp vault",
	}},
	{Name: "cloud_computing", Skills: []string{
		"aws ec2", "aws s3", "aws lambda", "azure vm", "google cloud functions",
		"cloudformation", "cloudfront", "route 53", "cloudflare", "cloudwatch",
		"eks", "aks", "gke", "aws amplify", "aws batch", "azure devops",
		"google app engine", "openstack", "cloudfoundry", "heroku", "digitalocean",
	}},
	{Name: "blockchain", Skills: []string{
		"smart contracts", "solidity", "web3.js", "ether.js", "ethereum", "hyperledger",
		"binance smart chain", "nft development", "decentralized applications (dapps)",
		"cryptography", "consensus algorithms", "blockchain security",
		"chainlink", "polkadot", "cardano", "polygon", "solana", "truffle", "ganache", "hardhat",
	}},
	{Name: "networking", Skills: []string{
		"tcp/ip", "udp", "dns", "dhcp", "vpn", "firewalls", "load balancing", "routing protocols",
		"bgp", "ospf", "eigrp", "sd-wan", "network security", "wireless networking",
		"network monitoring", "snmp", "wireshark", "packet analysis", "ipv6",
	}},
	{Name: "cybersecurity", Skills: []string{
		"penetration testing", "vulnerability assessment", "ethical hacking",
		"network security", "application security", "firewall management",
		"ids/ips", "encryption", "threat modeling", "incident response",
		"digital forensics", "security operations", "malware analysis",
		"risk assessment", "identity management", "zero trust security", "soc operations",
	}},
	{Name: "robotics", Skills: []string{
		"robot operating system (ros)", "automation", "robot kinematics",
		"robot path planning", "robot control", "mechatronics", "robot vision",
		"industrial robots", "autonomous navigation", "robotic arm programming",
	}},
	{Name: "manufacturing", Skills: []string{
		"cad", "cam", "cnc programming", "lean manufacturing", "kaizen",
		"six sigma", "process optimization", "quality control", "supply chain management",
		"production planning", "inventory optimization",
	}},
	{Name: "medical", Skills: []string{
		"patient care", "diagnostics", "medical coding", "phlebotomy",
		"medical transcription", "telemedicine", "surgical assistance",
		"clinical research", "pharmaceuticals", "biostatistics",
	}},
	{Name: "game_development", Skills: []string{
		"unity", "unreal engine", "godot", "game physics",
		"game ai", "level design", "shader programming", "animation rigging",
		"3d asset creation", "audio programming", "game monetization",
	}},
	{Name: "social_media", Skills: []string{
		"community management", "social media strategy", "content scheduling",
		"social listening", "social analytics", "viral marketing", "influencer outreach",
		"brand advocacy", "content curation", "ugc management",
	}},
	{Name: "supply_chain", Skills: []string{
		"inventory management", "logistics coordination", "warehouse management",
		"demand forecasting", "supplier negotiation", "fleet management",
		"distribution planning", "material requirements planning (mrp)",
		"just-in-time (jit)", "total quality management (tqm)",
	}},
}
